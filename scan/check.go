package scan

import (
	"bytes"
	"log"
	"os"

	"github.com/gsum/gsum/db"
	"github.com/gsum/gsum/hashing"
	"github.com/gsum/gsum/sha256"
)

// Result is what a verification pass found. Ok means every recorded file
// still exists and still has its recorded digest.
type Result struct {
	Checked    int
	Mismatched int
	Missing    int
}

func (r Result) Ok() bool {
	return r.Mismatched == 0 && r.Missing == 0
}

// Check re-hashes every file recorded under root and compares against the
// stored digest. yeah you SAY the files are intact but how do i KNOW
func Check(root string) Result {
	root = normalizeDir(root)
	var result Result
	rows, err := db.DB.Query("SELECT path, hash, size FROM files WHERE path "+db.StartsWithPattern(1)+" ORDER BY path", root)
	db.Must(err)
	defer rows.Close()
	type entry struct {
		path string
		hash []byte
		size int64
	}
	var entries []entry
	for rows.Next() {
		var e entry
		db.Must(rows.Scan(&e.path, &e.hash, &e.size))
		entries = append(entries, e)
	}
	db.Must(rows.Err())
	db.Must(rows.Close())

	for _, e := range entries {
		result.Checked++
		if _, err := os.Stat(e.path); err != nil {
			log.Println("MISSING:", e.path, "was recorded but is gone:", err)
			result.Missing++
			continue
		}
		log.Println("Checking", e.path, "against recorded sha256", sha256.EncodeHex(e.hash))
		hash, size, err := hashing.HashFile(e.path)
		if err != nil {
			// it statted but didn't read, that's a miss too
			log.Println("MISSING:", e.path, "couldn't be read:", err)
			result.Missing++
			continue
		}
		if !bytes.Equal(hash, e.hash) {
			log.Println("MISMATCH:", e.path, "recorded", sha256.EncodeHex(e.hash), "but disk says", sha256.EncodeHex(hash))
			result.Mismatched++
			continue
		}
		if size != e.size {
			// identical digest with a different size means the db row is nonsense
			panic("impossible: identical sha256 but size differs for " + e.path)
		}
		log.Println("Hash is equal!")
	}
	return result
}
