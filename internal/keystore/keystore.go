package keystore

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
)

// ErrKeyNotFound se devuelve cuando no hay clave bajo un alias.
var ErrKeyNotFound = errors.New("key not found")

const (
	aliasPrefix = "keystore/"
	keySize     = 32
)

// Backend es el almacenamiento cifrado donde viven las claves.
// securestore.Store lo implementa.
type Backend interface {
	GetString(key, def string) (string, error)
	PutString(key, value string) error
	Contains(key string) bool
	Remove(key string) error
}

// KeyStore guarda claves AES-256 con nombre.
type KeyStore struct {
	backend Backend
}

// New crea un keystore sobre backend.
func New(backend Backend) *KeyStore {
	return &KeyStore{backend: backend}
}

// ContainsAlias indica si existe una clave bajo alias.
func (keyStore *KeyStore) ContainsAlias(alias string) bool {
	return keyStore.backend.Contains(aliasPrefix + alias)
}

// DeleteEntry borra la clave de alias.
func (keyStore *KeyStore) DeleteEntry(alias string) error {
	return keyStore.backend.Remove(aliasPrefix + alias)
}

// GenerateKey crea una clave aleatoria nueva bajo alias, pisando la anterior.
func (keyStore *KeyStore) GenerateKey(alias string) error {
	key := make([]byte, keySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return err
	}
	return keyStore.backend.PutString(aliasPrefix+alias, hex.EncodeToString(key))
}

// Key devuelve la clave de alias.
func (keyStore *KeyStore) Key(alias string) ([]byte, error) {
	encoded, err := keyStore.backend.GetString(aliasPrefix+alias, "")
	if err != nil {
		return nil, err
	}
	if encoded == "" {
		return nil, ErrKeyNotFound
	}
	key, err := hex.DecodeString(encoded)
	if err != nil || len(key) != keySize {
		return nil, fmt.Errorf("key %q is malformed", alias)
	}
	return key, nil
}
