package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/gsum/gsum/config"
	"github.com/gsum/gsum/crypto"
	"github.com/gsum/gsum/db"
	"github.com/gsum/gsum/hashing"
	"github.com/gsum/gsum/scan"
	"github.com/gsum/gsum/sha256"
	"github.com/urfave/cli"
)

func main() {
	app := cli.NewApp()
	app.Name = "gsum"
	app.Usage = "hash the files"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "database",
			Usage: "override where the digest database is",
		},
	}
	app.Before = func(c *cli.Context) error {
		config.DatabaseLocation = c.String("database")
		return nil
	}
	app.Commands = []cli.Command{
		{
			Name:  "sum",
			Usage: "print the sha256 of files, or of stdin if no files are given",
			Action: func(c *cli.Context) error {
				if c.NArg() == 0 {
					digest, err := hashing.HashReader(os.Stdin)
					if err != nil {
						return err
					}
					fmt.Println(sha256.EncodeHex(digest) + "  -")
					return nil
				}
				for _, path := range c.Args() {
					digest, _, err := hashing.HashFile(path)
					if err != nil {
						return err
					}
					fmt.Println(sha256.EncodeHex(digest) + "  " + path)
				}
				return nil
			},
		},
		{
			Name:  "check",
			Usage: "compare one file against an expected sha256, e.g. gsum check b94d27b9... hello.txt",
			Action: func(c *cli.Context) error {
				if c.NArg() != 2 {
					return errors.New("give me a hex digest and a file, in that order")
				}
				expected, err := sha256.ParseHex(c.Args().Get(0))
				if err != nil {
					return err
				}
				if len(expected) != sha256.Size {
					return errors.New("that hex is the wrong length for a sha256, expected 64 characters")
				}
				path := c.Args().Get(1)
				digest, _, err := hashing.HashFile(path)
				if err != nil {
					return err
				}
				if sha256.EncodeHex(digest) != sha256.EncodeHex(expected) {
					return errors.New(path + ": FAILED, actual sha256 is " + sha256.EncodeHex(digest))
				}
				fmt.Println(path + ": OK")
				return nil
			},
		},
		{
			Name:  "record",
			Usage: "walk a directory and record the sha256 of every file into the database",
			Action: func(c *cli.Context) error {
				path := c.Args().First()
				if path == "" {
					return errors.New("Must give me a path to record. Use \".\" for current directory.")
				}
				db.SetupDatabase()
				defer db.ShutdownDatabase()
				scan.Record(path)
				return nil
			},
		},
		{
			Name:  "verify",
			Usage: "yeah you SAY the files are unchanged but how do i KNOW",
			Action: func(c *cli.Context) error {
				path := c.Args().First()
				if path == "" {
					return errors.New("Must give me a path to verify. Use \".\" for current directory.")
				}
				db.SetupDatabase()
				defer db.ShutdownDatabase()
				result := scan.Check(path)
				log.Println("Checked", result.Checked, "files:", result.Mismatched, "mismatched,", result.Missing, "missing")
				if !result.Ok() {
					return errors.New("verification FAILED")
				}
				fmt.Println("OK")
				return nil
			},
		},
		{
			Name:  "salted",
			Usage: "demo salted password digest. NOT a real KDF, do not store passwords with this",
			Flags: []cli.Flag{
				cli.BoolFlag{
					Name:  "gen-salt, g",
					Usage: "generate a random salt instead of supplying one",
				},
			},
			Action: func(c *cli.Context) error {
				password := c.Args().Get(0)
				if password == "" {
					return errors.New("give me a password")
				}
				var salt string
				if c.Bool("gen-salt") {
					salt = sha256.EncodeHex(crypto.RandBytes(16))
				} else {
					salt = c.Args().Get(1)
					if salt == "" {
						return errors.New("give me a salt, or use --gen-salt")
					}
				}
				out := make([]byte, sha256.Size)
				if err := crypto.SaltedPasswordDigest(password, salt, out); err != nil {
					return err
				}
				fmt.Println("salt:   " + salt)
				fmt.Println("digest: " + sha256.EncodeHex(out))
				return nil
			},
		},
	}
	err := app.Run(os.Args)
	if err != nil {
		log.Fatalln(err)
	}
}
