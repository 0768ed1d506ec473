package sumfile

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	"fmt"
	"hash"
	"io"
	"os"
	"sort"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/blake2b"
)

// Sumfile holds known checksums for a set of files, one per line in
// "algo:base58-value filename" form.
type Sumfile struct {
	entries []entry
}

type entry struct {
	hash []byte
	file string
	algo string
}

func LoadFile(path string) (*Sumfile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	defer f.Close()

	var sf Sumfile

	err = sf.Load(f)
	if err != nil {
		return nil, err
	}

	return &sf, nil
}

func (s *Sumfile) Load(r io.Reader) error {
	br := bufio.NewReader(r)

	for {
		line, err := br.ReadBytes('\n')
		if err != nil {
			if err == io.EOF {
				break
			}

			return err
		}

		colon := bytes.IndexByte(line, ':')
		if colon == -1 {
			continue
		}

		space := bytes.IndexByte(line, ' ')
		if space == -1 {
			continue
		}

		b, err := base58.Decode(string(line[colon+1 : space]))
		if err != nil {
			return err
		}

		s.entries = append(s.entries, entry{
			algo: string(line[:colon]),
			hash: b,
			file: string(bytes.TrimSpace(line[space+1:])),
		})
	}

	// Lookup binary-searches, so hold the sorted order even when the
	// file's lines are not alphabetical.
	sort.Slice(s.entries, func(i, j int) bool {
		return s.entries[i].file < s.entries[j].file
	})

	return nil
}

func (s *Sumfile) Add(file, algo string, h []byte) (string, error) {
	s.entries = append(s.entries, entry{
		algo: algo,
		hash: h,
		file: file,
	})

	sort.Slice(s.entries, func(i, j int) bool {
		return s.entries[i].file < s.entries[j].file
	})

	return algo + ":" + base58.Encode(h), nil
}

func (s *Sumfile) Save(w io.Writer) error {
	for _, e := range s.entries {
		fmt.Fprintf(w, "%s:%s %s\n", e.algo, base58.Encode(e.hash), e.file)
	}

	return nil
}

func (s *Sumfile) Lookup(file string) (string, []byte, bool) {
	idx := sort.Search(len(s.entries), func(i int) bool {
		return s.entries[i].file >= file
	})

	if idx == len(s.entries) {
		return "", nil, false
	}

	if s.entries[idx].file == file {
		return s.entries[idx].algo, s.entries[idx].hash, true
	}

	return "", nil, false
}

// Hasher returns a fresh hash for a sum algorithm named in a sumfile.
func Hasher(algo string) (hash.Hash, error) {
	switch algo {
	case "b2":
		return blake2b.New256(nil)
	case "sha256":
		return sha256.New(), nil
	}

	return nil, fmt.Errorf("unknown sum algorithm: %s", algo)
}

// Verify hashes the content of r with the named algorithm and compares
// it against the expected value.
func Verify(r io.Reader, algo string, expected []byte) error {
	h, err := Hasher(algo)
	if err != nil {
		return err
	}

	_, err = io.Copy(h, r)
	if err != nil {
		return err
	}

	if !bytes.Equal(expected, h.Sum(nil)) {
		return fmt.Errorf("%s sum mismatch", algo)
	}

	return nil
}
