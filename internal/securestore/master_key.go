package securestore

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadMasterKey resuelve la master key de 32 bytes.
// Orden: hexKey (MASTER_KEY_HEX) si viene, si no el archivo en path, y si el
// archivo no existe se genera una clave nueva y se guarda con permisos 0600.
func LoadMasterKey(hexKey, path string) ([]byte, error) {
	hexKey = strings.TrimSpace(hexKey)
	if hexKey != "" {
		return decodeMasterKey(hexKey)
	}

	data, err := os.ReadFile(path)
	if err == nil {
		return decodeMasterKey(strings.TrimSpace(string(data)))
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, []byte(hex.EncodeToString(key)+"\n"), 0o600); err != nil {
		return nil, err
	}
	return key, nil
}

func decodeMasterKey(hexKey string) ([]byte, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("master key hex decode error: %w", err)
	}
	if len(key) != 32 {
		return nil, ErrInvalidKeyLength
	}
	return key, nil
}
