// Package scan records and re-checks the digests of whole directory trees
// against the sqlite index. The hashing itself is the sha256 package, here
// is just the plumbing: walking, skipping unmodified files, fanning out to
// hasher threads, pruning rows for files that no longer exist.
package scan

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gsum/gsum/config"
	"github.com/gsum/gsum/db"
	"github.com/gsum/gsum/hashing"
	"github.com/gsum/gsum/sha256"
	"github.com/gsum/gsum/utils"
)

type hashPlan struct {
	path string
	info os.FileInfo

	// the hash of this file as of the last time we recorded it, nil if new.
	// if it comes out the same we only refresh fs_modified
	expectedHash []byte
}

type session struct {
	root     string
	now      int64 // every row written by one Record run gets the same timestamp
	seen     map[string]struct{}
	hasherCh chan hashPlan
}

// Record walks root, hashes everything new or modified, and upserts one row
// per file. Files whose fs_modified is unchanged are skipped without being
// read at all, that's the entire point of keeping the timestamp around.
func Record(root string) {
	root = normalizeDir(root)
	s := &session{
		root:     root,
		now:      time.Now().Unix(),
		seen:     make(map[string]struct{}),
		hasherCh: make(chan hashPlan),
	}

	threads := config.Config().NumHasherThreads
	var workers sync.WaitGroup
	for i := 0; i < threads; i++ {
		workers.Add(1)
		go func() {
			defer workers.Done()
			s.hasherThread()
		}()
	}

	log.Println("Beginning scan now!")
	utils.WalkFiles(root, func(path string, info os.FileInfo) {
		s.seen[path] = struct{}{}
		s.scanFile(path, info)
	})
	close(s.hasherCh)
	workers.Wait()

	s.pruneDeletedFiles()
}

// scanFile decides whether a file needs hashing. runs on the walker
// goroutine, so it only does one cheap query per file
func (s *session) scanFile(path string, info os.FileInfo) {
	var expectedModified int64
	var expectedHash []byte
	err := db.DB.QueryRow("SELECT fs_modified, hash FROM files WHERE path = ?", path).Scan(&expectedModified, &expectedHash)
	if err == nil {
		if expectedModified == info.ModTime().Unix() {
			return // unmodified, don't even open it
		}
		log.Println("MODIFIED:", path, "fs_modified went from", expectedModified, "to", info.ModTime().Unix())
	} else {
		if err != db.ErrNoRows {
			panic(err) // sql syntax error?
		}
		expectedHash = nil
	}
	s.hasherCh <- hashPlan{path, info, expectedHash}
}

func (s *session) hasherThread() {
	for plan := range s.hasherCh {
		s.hashOneFile(plan)
	}
}

func (s *session) hashOneFile(plan hashPlan) {
	log.Println("Beginning read for sha256 calc:", plan.path)
	hash, size, err := hashing.HashFile(plan.path)
	if err != nil {
		if config.Config().SkipHashFailures {
			log.Println("Skipping", plan.path, "due to", err, "(maybe it was deleted?) because skip_hash_failures is true")
			return
		}
		log.Println(plan.path, "couldn't be recorded due to", err, "and skip_hash_failures is false, so, panicking now")
		panic(err)
	}
	if size != plan.info.Size() {
		// this file is being written while we read it, record what we got
		log.Println("WARNING: size changed while reading, maybe a log file?", plan.path)
	}
	log.Println("sha256 is", sha256.EncodeHex(hash), "and length is", utils.FormatCommas(size))

	if plan.expectedHash == nil {
		log.Println("NEW FILE:", plan.path)
	} else if !bytes.Equal(plan.expectedHash, hash) {
		log.Println(plan.path, "hash has changed from", sha256.EncodeHex(plan.expectedHash), "to", sha256.EncodeHex(hash))
	} else {
		log.Println("Hash is unchanged even though fs_modified changed, just refreshing the timestamp")
	}
	_, err = db.DB.Exec("INSERT OR REPLACE INTO files (path, hash, size, fs_modified, recorded) VALUES (?, ?, ?, ?, ?)",
		plan.path, hash, size, plan.info.ModTime().Unix(), s.now)
	db.Must(err)
}

// find rows under this root for files that no longer exist on disk (i.e. they're DELETED LOL)
func (s *session) pruneDeletedFiles() {
	log.Println("Finally, handling deleted files!")
	rows, err := db.DB.Query("SELECT path FROM files WHERE path "+db.StartsWithPattern(1), s.root)
	db.Must(err)
	defer rows.Close()
	var doomed []string
	for rows.Next() {
		var databasePath string
		db.Must(rows.Scan(&databasePath))
		if _, ok := s.seen[databasePath]; !ok {
			doomed = append(doomed, databasePath)
		}
	}
	db.Must(rows.Err())
	db.Must(rows.Close())
	for _, path := range doomed {
		log.Println(path, "used to exist but does not any longer. Removing its row.")
		_, err = db.DB.Exec("DELETE FROM files WHERE path = ?", path)
		db.Must(err)
	}
}

func normalizeDir(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		panic(err)
	}
	stat, err := os.Stat(abs)
	if err != nil {
		panic(abs + " doesn't exist")
	}
	if !stat.IsDir() {
		panic(abs + " is not a directory, gsum sum handles single files")
	}
	if !strings.HasSuffix(abs, "/") {
		abs += "/"
	}
	return abs
}
