// Import inbox watcher: scans a directory for .xlsx drops, imports each
// file as a transaction batch for one school, then moves the file to a
// processed (or failed) subdirectory so it is handled exactly once.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"sikeu/models"
	"sikeu/pkg/importer"
)

var db *gorm.DB

var verbose bool

func main() {
	defaultDir := os.Getenv("IMPORT_INBOX")
	if defaultDir == "" {
		defaultDir = "import_inbox"
	}
	dirFlag := flag.String("dir", defaultDir, "directory to scan for .xlsx drops")
	schoolID := flag.Uint("school-id", 0, "school the imported transactions belong to (required)")
	actor := flag.String("actor", "admin", "username recorded as the creator of imported rows")
	watch := flag.Bool("watch", false, "keep watching the directory for new files")
	workers := flag.Int("workers", 0, "worker pool size (default NumCPU)")
	dryRun := flag.Bool("dry-run", false, "list candidate files without importing")
	flag.BoolVar(&verbose, "verbose", false, "verbose per-file logging")
	flag.Parse()

	if *dryRun {
		files := listSheetFiles(*dirFlag)
		log.Printf("Dry-run: %d candidate files in %s", len(files), *dirFlag)
		for _, f := range files {
			fmt.Println(f)
		}
		return
	}
	if *schoolID == 0 {
		log.Fatal("--school-id is required")
	}

	loadDotEnv()
	db = mustInitDBFromEnv()

	var school models.School
	if err := db.First(&school, *schoolID).Error; err != nil {
		log.Fatalf("school %d not found: %v", *schoolID, err)
	}
	var user models.User
	if err := db.Where("username = ?", *actor).First(&user).Error; err != nil {
		log.Fatalf("actor user %q not found: %v", *actor, err)
	}
	log.Printf("Importing into %q as %s", school.Name, user.Username)

	files := listSheetFiles(*dirFlag)
	log.Printf("Scanning %d files (workers=%d)", len(files), effectiveWorkers(*workers))
	runWorkerPool(*dirFlag, school.ID, user.ID, files, effectiveWorkers(*workers))

	if *watch {
		if err := watchDirectory(*dirFlag, school.ID, user.ID, effectiveWorkers(*workers)); err != nil {
			log.Fatalf("watch failed: %v", err)
		}
	}
}

func mustInitDBFromEnv() *gorm.DB {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatalf("DB_DSN must be set in environment to run this tool")
	}
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	return gdb
}

func effectiveWorkers(w int) int {
	if w <= 0 {
		return runtime.NumCPU()
	}
	return w
}

func logV(format string, args ...any) {
	if verbose {
		log.Printf(format, args...)
	}
}

func listSheetFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !isSheetFile(e.Name()) {
			continue
		}
		out = append(out, e.Name())
	}
	sort.Strings(out)
	return out
}

func isSheetFile(name string) bool {
	// ignore Excel lock files left behind by open editors
	if strings.HasPrefix(name, "~$") {
		return false
	}
	return strings.EqualFold(filepath.Ext(name), ".xlsx")
}

func watchDirectory(dir string, schoolID, actorID uint, workers int) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		return err
	}
	log.Printf("Watching %s (debounced) ...", dir)

	fileCh := make(chan string, 256)
	go func() {
		// debounce so half-written drops settle before import
		pending := map[string]time.Time{}
		ticker := time.NewTicker(250 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					close(fileCh)
					return
				}
				if ev.Op&(fsnotify.Create|fsnotify.Write) != 0 {
					name := filepath.Base(ev.Name)
					if !isSheetFile(name) {
						continue
					}
					pending[name] = time.Now()
				}
			case <-ticker.C:
				now := time.Now()
				for name, t := range pending {
					if now.Sub(t) > 500*time.Millisecond { // stable
						fileCh <- name
						delete(pending, name)
					}
				}
			case err, ok := <-w.Errors:
				if !ok {
					close(fileCh)
					return
				}
				log.Printf("watch error: %v", err)
			}
		}
	}()

	go runWorkerPool(dir, schoolID, actorID, nil, workers, fileCh)
	// block forever (Ctrl+C to exit)
	select {}
}

func runWorkerPool(dir string, schoolID, actorID uint, initial []string, workers int, extraCh ...<-chan string) {
	fileCh := make(chan string, 1024)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range fileCh {
				importSingleFile(dir, name, schoolID, actorID)
			}
		}()
	}
	go func() {
		for _, f := range initial {
			fileCh <- f
		}
		for _, ch := range extraCh {
			go func(c <-chan string) {
				for n := range c {
					fileCh <- n
				}
			}(ch)
		}
		if len(extraCh) == 0 {
			close(fileCh)
		}
	}()
	if len(extraCh) == 0 {
		wg.Wait()
	}
}

// importSingleFile runs one spreadsheet through the importer and moves it
// to processed/ (or failed/ when it could not be read at all). Row-level
// failures do not fail the file; they go to the sidecar .log.
func importSingleFile(dir, name string, schoolID, actorID uint) {
	path := filepath.Join(dir, name)
	f, err := os.Open(path)
	if err != nil {
		log.Printf("ERROR open %s: %v", name, err)
		return
	}
	im := &importer.Importer{Store: importer.NewGormStore(db)}
	res, err := im.ImportXLSX(f, schoolID, actorID)
	f.Close()
	if err != nil {
		log.Printf("ERROR import %s: %v", name, err)
		if mvErr := moveTo(dir, name, "failed"); mvErr != nil {
			log.Printf("WARN move failed file %s: %v", name, mvErr)
		}
		return
	}
	log.Printf("IMPORT %s batch=%s total=%d berhasil=%d gagal=%d", name, res.BatchID, res.Total, res.Success, res.Failed)
	for _, e := range res.Errors {
		logV("  %s: %s", name, e)
	}
	if err := writeResultLog(dir, name, res); err != nil {
		log.Printf("WARN write result log for %s: %v", name, err)
	}
	if err := moveTo(dir, name, "processed"); err != nil {
		log.Printf("WARN move processed file %s: %v", name, err)
	}
}

// writeResultLog leaves a human-readable sidecar next to the processed
// file so operators can see which rows were rejected.
func writeResultLog(dir, name string, res *importer.Result) error {
	outDir := filepath.Join(dir, "processed")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	out, err := os.Create(filepath.Join(outDir, name+".log"))
	if err != nil {
		return err
	}
	defer out.Close()
	w := bufio.NewWriter(out)
	fmt.Fprintf(w, "batch %s: total=%d berhasil=%d gagal=%d\n", res.BatchID, res.Total, res.Success, res.Failed)
	for _, s := range res.Created {
		fmt.Fprintf(w, "OK   baris %d: %s %s (%s)\n", s.Row, s.ReceiptNumber, s.Amount, s.Description)
	}
	for _, e := range res.Errors {
		fmt.Fprintf(w, "FAIL %s\n", e)
	}
	for _, warn := range res.Warnings {
		fmt.Fprintf(w, "WARN %s\n", warn)
	}
	return w.Flush()
}

func moveTo(dir, name, sub string) error {
	dstDir := filepath.Join(dir, sub)
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return err
	}
	return os.Rename(filepath.Join(dir, name), filepath.Join(dstDir, name))
}

// Minimal .env loader (non-destructive)
func loadDotEnv() {
	path := ".env"
	if _, err := os.Stat(path); err != nil {
		return
	}
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if eq := strings.IndexByte(line, '='); eq > 0 {
			k := strings.TrimSpace(line[:eq])
			v := strings.TrimSpace(line[eq+1:])
			if _, exists := os.LookupEnv(k); !exists {
				_ = os.Setenv(k, v)
			}
		}
	}
}
