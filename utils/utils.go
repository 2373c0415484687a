package utils

import (
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"syscall"
	"unicode/utf8"

	"golang.org/x/sys/unix"

	"github.com/gsum/gsum/config"
)

// return true if and only if the provided FileInfo represents a completely normal file, and nothing weird like a directory, symlink, pipe, socket, block device, etc
func NormalFile(info os.FileInfo) bool {
	return info.Mode()&os.ModeType == 0
}

func HaveReadPermission(path string) bool {
	err := syscall.Access(path, unix.R_OK)
	return err != syscall.EACCES
}

// walk a directory recursively, but only call the provided function for normal files that don't error on os.Stat
func WalkFiles(startPath string, fn func(path string, info os.FileInfo)) {
	type PathAndInfo struct {
		path string
		info os.FileInfo
	}
	filesCh := make(chan PathAndInfo, 32)
	done := make(chan struct{})
	go func() {
		for file := range filesCh {
			fn(file.path, file.info)
		}
		done <- struct{}{}
	}()
	err := filepath.Walk(startPath, func(path string, info os.FileInfo, err error) error {
		if !utf8.ValidString(path) {
			panic("invalid utf8 on your filesystem at " + path)
		}
		if config.ExcludeFromScan(startPath, path) {
			if info == nil {
				log.Println("EXCLUDING & ERROR while reading path which is ignored by your configuration:", path, err)
				return nil
			}

			log.Println("EXCLUDING this path and pretending it doesn't exist, due to your exclude config:", path)

			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if IsDatabaseFile(path) {
			log.Println("EXCLUDING this path because it is the gsum database:", path)
			return nil
		}
		ignoreErrors := config.Config().IgnorePermissionErrors
		if err != nil {
			if oserr, ok := err.(*os.PathError); ok && ignoreErrors {
				if oserr.Err == syscall.EACCES {
					log.Printf("permission error for %s, skipping...", path)
					return nil
				}
			}
			log.Println("While traversing those files, I got this error:")
			log.Println(err)
			log.Println("while looking at this path:")
			log.Println(path)
			return err
		}
		if !NormalFile(info) { // **THIS IS WHAT SKIPS DIRECTORIES**
			return nil
		}
		if ignoreErrors && !HaveReadPermission(path) {
			return nil // skip this file
		}
		filesCh <- PathAndInfo{path, info}
		return nil
	})
	if err != nil {
		// permission error while traversing
		// we should *not* continue, because that would record a partial picture of the directory
		// and then verify/prune would treat every unvisited file as deleted
		panic(err)
	}
	close(filesCh)
	<-done
}

func IsDatabaseFile(path string) bool {
	dbPath := config.Config().DatabaseLocation
	if config.DatabaseLocation != "" {
		dbPath = config.DatabaseLocation
	}
	return path == dbPath || path == dbPath+"-wal" || path == dbPath+"-shm"
}

var commaRegex = regexp.MustCompile("(\\d+)(\\d{3})")

func FormatCommas(num int64) string {
	str := strconv.FormatInt(num, 10)
	for n := ""; n != str; {
		n = str
		str = commaRegex.ReplaceAllString(str, "$1,$2")
	}
	return str
}
