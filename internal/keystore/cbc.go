package keystore

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"io"
)

// ErrInvalidCiphertext se devuelve cuando el blob no tiene forma iv||ciphertext válida.
var ErrInvalidCiphertext = errors.New("invalid ciphertext")

// EncryptCBC cifra plaintext con AES-CBC y padding PKCS7.
// El resultado es iv || ciphertext, con un IV aleatorio por llamada.
func EncryptCBC(key, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	padded := pkcs7Pad(plaintext, aes.BlockSize)
	out := make([]byte, aes.BlockSize+len(padded))

	iv := out[:aes.BlockSize]
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, err
	}

	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out[aes.BlockSize:], padded)
	return out, nil
}

// DecryptCBC revierte EncryptCBC.
func DecryptCBC(key, blob []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	if len(blob) < 2*aes.BlockSize || len(blob)%aes.BlockSize != 0 {
		return nil, ErrInvalidCiphertext
	}

	iv := blob[:aes.BlockSize]
	plain := make([]byte, len(blob)-aes.BlockSize)
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, blob[aes.BlockSize:])

	return pkcs7Unpad(plain, aes.BlockSize)
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padding := blockSize - len(data)%blockSize
	return append(bytes.Clone(data), bytes.Repeat([]byte{byte(padding)}, padding)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, ErrInvalidCiphertext
	}
	padding := int(data[len(data)-1])
	if padding == 0 || padding > blockSize {
		return nil, ErrInvalidCiphertext
	}
	for _, b := range data[len(data)-padding:] {
		if int(b) != padding {
			return nil, ErrInvalidCiphertext
		}
	}
	return data[:len(data)-padding], nil
}
