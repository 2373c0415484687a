package scan

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gsum/gsum/config"
	"github.com/gsum/gsum/db"
	"github.com/gsum/gsum/sha256"
)

func setupScanTest(t *testing.T) string {
	tmpDir := t.TempDir()
	// a real file-backed database, because Record hits it from several
	// goroutines and the shared-cache in-memory mode doesn't love that.
	// the db lives inside the scanned tree on purpose: IsDatabaseFile has to
	// keep it from being recorded, same as in real use
	dbPath := filepath.Join(tmpDir, "test.db")
	if err := os.WriteFile(dbPath, nil, 0644); err != nil {
		t.Fatal(err)
	}
	config.SetTestConfig(dbPath)
	config.DatabaseLocation = dbPath
	db.SetupDatabase()
	t.Cleanup(db.ShutdownDatabase)
	return tmpDir
}

func writeFile(t *testing.T, path string, contents string) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
}

func rowFor(t *testing.T, path string) ([]byte, int64) {
	var hash []byte
	var size int64
	err := db.DB.QueryRow("SELECT hash, size FROM files WHERE path = ?", path).Scan(&hash, &size)
	if err != nil {
		t.Fatal(err)
	}
	return hash, size
}

func numRows(t *testing.T) int {
	var n int
	if err := db.DB.QueryRow("SELECT COUNT(*) FROM files").Scan(&n); err != nil {
		t.Fatal(err)
	}
	return n
}

func TestRecordAndCheck(t *testing.T) {
	dir := setupScanTest(t)
	writeFile(t, filepath.Join(dir, "a.txt"), "hello world")
	writeFile(t, filepath.Join(dir, "sub", "b.txt"), "some other contents")

	Record(dir)

	if numRows(t) != 2 {
		t.Fatalf("expected 2 rows, got %d", numRows(t))
	}
	hash, size := rowFor(t, filepath.Join(dir, "a.txt"))
	if sha256.EncodeHex(hash) != "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9" {
		t.Errorf("recorded wrong hash for a.txt: %s", sha256.EncodeHex(hash))
	}
	if size != int64(len("hello world")) {
		t.Errorf("recorded wrong size for a.txt: %d", size)
	}

	result := Check(dir)
	if !result.Ok() || result.Checked != 2 {
		t.Errorf("fresh record should check clean, got %+v", result)
	}
}

func TestRecordPicksUpModification(t *testing.T) {
	dir := setupScanTest(t)
	path := filepath.Join(dir, "mutating.txt")
	writeFile(t, path, "version one")
	Record(dir)
	before, _ := rowFor(t, path)

	writeFile(t, path, "version two, different length even")
	// make sure fs_modified actually differs, filesystems have coarse timestamps
	future := time.Now().Add(5 * time.Second)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatal(err)
	}
	Record(dir)
	after, size := rowFor(t, path)

	if bytes.Equal(before, after) {
		t.Errorf("hash should have changed")
	}
	if !bytes.Equal(after, sha256.Sum256([]byte("version two, different length even"))) {
		t.Errorf("new hash is wrong")
	}
	if size != int64(len("version two, different length even")) {
		t.Errorf("new size is wrong: %d", size)
	}
}

func TestRecordPrunesDeletedFiles(t *testing.T) {
	dir := setupScanTest(t)
	keep := filepath.Join(dir, "keep.txt")
	doomed := filepath.Join(dir, "doomed.txt")
	writeFile(t, keep, "staying")
	writeFile(t, doomed, "leaving")
	Record(dir)
	if numRows(t) != 2 {
		t.Fatalf("expected 2 rows, got %d", numRows(t))
	}

	if err := os.Remove(doomed); err != nil {
		t.Fatal(err)
	}
	Record(dir)
	if numRows(t) != 1 {
		t.Errorf("expected the doomed row to be pruned, have %d rows", numRows(t))
	}
	hash, _ := rowFor(t, keep)
	if !bytes.Equal(hash, sha256.Sum256([]byte("staying"))) {
		t.Errorf("surviving row got mangled")
	}
}

func TestCheckFindsMismatch(t *testing.T) {
	dir := setupScanTest(t)
	path := filepath.Join(dir, "trusty.txt")
	writeFile(t, path, "original contents")
	Record(dir)

	// corrupt the RECORD, not the file, so fs_modified can't save us
	_, err := db.DB.Exec("UPDATE files SET hash = ? WHERE path = ?", sha256.Sum256([]byte("something else")), path)
	if err != nil {
		t.Fatal(err)
	}
	result := Check(dir)
	if result.Mismatched != 1 {
		t.Errorf("expected 1 mismatch, got %+v", result)
	}
	if result.Ok() {
		t.Errorf("a mismatch is not ok")
	}
}

func TestCheckFindsMissing(t *testing.T) {
	dir := setupScanTest(t)
	path := filepath.Join(dir, "fleeting.txt")
	writeFile(t, path, "now you see me")
	Record(dir)
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	result := Check(dir)
	if result.Missing != 1 || result.Ok() {
		t.Errorf("expected 1 missing, got %+v", result)
	}
}
