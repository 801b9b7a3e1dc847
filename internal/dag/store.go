package dag

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gocid "github.com/ipfs/go-cid"
	"github.com/multiformats/go-multibase"
	"github.com/multiformats/go-multihash"
)

// ID is the lowercase hex SHA-1 digest naming a blob or commit.
type ID string

// NoID is the zero ID.
const NoID ID = ""

// IDLength is the number of hex characters in a full ID.
const IDLength = 40

// ComputeID digests data with SHA-1 and returns its hex ID.
func ComputeID(data []byte) (ID, error) {
	mh, err := multihash.Sum(data, multihash.SHA1, -1)
	if err != nil {
		return NoID, fmt.Errorf("multihash: %w", err)
	}
	decoded, err := multihash.Decode(mh)
	if err != nil {
		return NoID, fmt.Errorf("decode multihash: %w", err)
	}
	return ID(hex.EncodeToString(decoded.Digest)), nil
}

// Short returns the first seven characters of the ID.
func (id ID) Short() string {
	if len(id) <= 7 {
		return string(id)
	}
	return string(id[:7])
}

// CID renders the ID as a CIDv1 with the raw codec.
func (id ID) CID() (gocid.Cid, error) {
	digest, err := hex.DecodeString(string(id))
	if err != nil {
		return gocid.Undef, fmt.Errorf("decode id %q: %w", id, err)
	}
	mh, err := multihash.Encode(digest, multihash.SHA1)
	if err != nil {
		return gocid.Undef, fmt.Errorf("multihash: %w", err)
	}
	return gocid.NewCidV1(gocid.Raw, mh), nil
}

// Multibase returns the base32lower encoding of the ID's CID.
func (id ID) Multibase() (string, error) {
	c, err := id.CID()
	if err != nil {
		return "", err
	}
	return multibase.Encode(multibase.Base32, c.Bytes())
}

// IDFromCID converts a CID string carrying a SHA-1 multihash back to an ID.
func IDFromCID(s string) (ID, error) {
	c, err := gocid.Decode(s)
	if err != nil {
		return NoID, fmt.Errorf("decode cid: %w", err)
	}
	decoded, err := multihash.Decode(c.Hash())
	if err != nil {
		return NoID, fmt.Errorf("decode multihash: %w", err)
	}
	if decoded.Code != multihash.SHA1 {
		return NoID, fmt.Errorf("cid %s: unsupported hash %s", s, decoded.Name)
	}
	return ID(hex.EncodeToString(decoded.Digest)), nil
}

// ObjectStore manages ID-addressed immutable objects on disk.
type ObjectStore struct {
	dir string // path to objects/ directory
}

// NewObjectStore creates an ObjectStore at the given directory.
func NewObjectStore(dir string) (*ObjectStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create objects dir: %w", err)
	}
	return &ObjectStore{dir: dir}, nil
}

func (s *ObjectStore) path(id ID) string {
	return filepath.Join(s.dir, string(id))
}

// Put writes content to the object store under its digest, returning the ID.
// If the object already exists, this is a no-op.
func (s *ObjectStore) Put(content []byte) (ID, error) {
	id, err := ComputeID(content)
	if err != nil {
		return NoID, err
	}
	if err := s.PutRecord(id, content); err != nil {
		return NoID, err
	}
	return id, nil
}

// PutRecord stores data under an ID the caller derived. Commits use this:
// their ID covers parent, message and timestamp rather than the stored bytes.
// Objects are write-once, so an existing ID is left untouched.
func (s *ObjectStore) PutRecord(id ID, data []byte) error {
	if id == NoID {
		return fmt.Errorf("write object: empty id")
	}
	path := s.path(id)
	if _, err := os.Stat(path); err == nil {
		return nil // already exists
	}
	if err := SafeWrite(path, data, 0644); err != nil {
		return fmt.Errorf("write object: %w", err)
	}
	return nil
}

// Get reads an object by ID.
func (s *ObjectStore) Get(id ID) ([]byte, error) {
	data, err := os.ReadFile(s.path(id))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("object %s: %w", id, ErrObjectNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read object %s: %w", id, err)
	}
	return data, nil
}

// Has checks if an object exists.
func (s *ObjectStore) Has(id ID) bool {
	if id == NoID {
		return false
	}
	_, err := os.Stat(s.path(id))
	return err == nil
}

// Count returns the number of stored objects.
func (s *ObjectStore) Count() (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("list objects: %w", err)
	}
	n := 0
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".tmp-") {
			continue
		}
		n++
	}
	return n, nil
}
