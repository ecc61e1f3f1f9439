package securestore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/crypto/hkdf"
)

// Errores del store.
var (
	ErrInvalidKeyLength = errors.New("master key must be 32 bytes")
	ErrTypeMismatch     = errors.New("stored value has a different type")
	ErrCorrupted        = errors.New("stored value cannot be decrypted")
)

const (
	fileVersion = 1

	typeBoolean = "b"
	typeString  = "s"
)

// Store es un key-value persistido en un archivo con cifrado en reposo.
// Los nombres se guardan como HMAC-SHA256 y los valores con AES-256-GCM,
// usando el hash del nombre como dato asociado.
// Cada escritura se persiste en el momento.
type Store struct {
	path    string
	nameKey []byte
	aead    cipher.AEAD

	mu      sync.Mutex
	entries map[string]string
}

type fileContents struct {
	Version int               `json:"version"`
	Entries map[string]string `json:"entries"`
}

// Open abre (o crea vacío) el store en path con la master key dada.
func Open(path string, masterKey []byte) (*Store, error) {
	if len(masterKey) != 32 {
		return nil, ErrInvalidKeyLength
	}

	nameKey, err := deriveKey(masterKey, "pref-key-names")
	if err != nil {
		return nil, err
	}
	valueKey, err := deriveKey(masterKey, "pref-values")
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(valueKey)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	store := &Store{
		path:    path,
		nameKey: nameKey,
		aead:    aead,
		entries: make(map[string]string),
	}

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return store, nil
	case err != nil:
		return nil, err
	}

	var contents fileContents
	if err := json.Unmarshal(raw, &contents); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if contents.Entries != nil {
		store.entries = contents.Entries
	}
	return store, nil
}

// GetBoolean devuelve el booleano guardado en key o def si no existe.
func (store *Store) GetBoolean(key string, def bool) (bool, error) {
	value, found, err := store.get(key, typeBoolean)
	if err != nil || !found {
		return def, err
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return def, ErrCorrupted
	}
	return parsed, nil
}

// PutBoolean guarda value en key.
func (store *Store) PutBoolean(key string, value bool) error {
	return store.put(key, typeBoolean, strconv.FormatBool(value))
}

// GetString devuelve el string guardado en key o def si no existe.
func (store *Store) GetString(key, def string) (string, error) {
	value, found, err := store.get(key, typeString)
	if err != nil || !found {
		return def, err
	}
	return value, nil
}

// PutString guarda value en key.
func (store *Store) PutString(key, value string) error {
	return store.put(key, typeString, value)
}

// Contains indica si key tiene un valor guardado.
func (store *Store) Contains(key string) bool {
	store.mu.Lock()
	defer store.mu.Unlock()

	_, ok := store.entries[store.hashName(key)]
	return ok
}

// Remove borra key. No falla si no existía.
func (store *Store) Remove(key string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	name := store.hashName(key)
	if _, ok := store.entries[name]; !ok {
		return nil
	}
	delete(store.entries, name)
	return store.persistLocked()
}

func (store *Store) get(key, kind string) (string, bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	name := store.hashName(key)
	sealed, ok := store.entries[name]
	if !ok {
		return "", false, nil
	}

	plain, err := store.open(name, sealed)
	if err != nil {
		return "", false, err
	}

	storedKind, value, ok := strings.Cut(plain, ":")
	if !ok {
		return "", false, ErrCorrupted
	}
	if storedKind != kind {
		return "", false, ErrTypeMismatch
	}
	return value, true, nil
}

func (store *Store) put(key, kind, value string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	name := store.hashName(key)
	sealed, err := store.seal(name, kind+":"+value)
	if err != nil {
		return err
	}

	previous, existed := store.entries[name]
	store.entries[name] = sealed
	if err := store.persistLocked(); err != nil {
		// Si no se pudo escribir, la memoria no debe adelantarse al disco.
		if existed {
			store.entries[name] = previous
		} else {
			delete(store.entries, name)
		}
		return err
	}
	return nil
}

func (store *Store) hashName(key string) string {
	mac := hmac.New(sha256.New, store.nameKey)
	mac.Write([]byte(key))
	return hex.EncodeToString(mac.Sum(nil))
}

func (store *Store) seal(name, plain string) (string, error) {
	nonce := make([]byte, store.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	sealed := store.aead.Seal(nonce, nonce, []byte(plain), []byte(name))
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (store *Store) open(name, sealed string) (string, error) {
	blob, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", ErrCorrupted
	}
	nonceSize := store.aead.NonceSize()
	if len(blob) < nonceSize {
		return "", ErrCorrupted
	}
	plain, err := store.aead.Open(nil, blob[:nonceSize], blob[nonceSize:], []byte(name))
	if err != nil {
		return "", ErrCorrupted
	}
	return string(plain), nil
}

// persistLocked reescribe el archivo completo de forma atómica.
func (store *Store) persistLocked() error {
	raw, err := json.MarshalIndent(fileContents{Version: fileVersion, Entries: store.entries}, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(store.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(store.path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, store.path)
}

func deriveKey(masterKey []byte, info string) ([]byte, error) {
	reader := hkdf.New(sha256.New, masterKey, nil, []byte(info))
	out := make([]byte, 32)
	if _, err := io.ReadFull(reader, out); err != nil {
		return nil, err
	}
	return out, nil
}
