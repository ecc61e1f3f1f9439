package items

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/Lelo88/inventory-api-golang/internal/keystore"
	"github.com/google/uuid"
)

// KeyStore es el almacén de claves con nombre que usa la exportación.
// keystore.KeyStore lo implementa.
type KeyStore interface {
	ContainsAlias(alias string) bool
	DeleteEntry(alias string) error
	GenerateKey(alias string) error
	Key(alias string) ([]byte, error)
}

// Destination es el destino de escritura elegido por quien exporta.
type Destination interface {
	OpenOutput() (io.WriteCloser, error)
}

type writerDestination struct {
	writer io.Writer
}

func (destination writerDestination) OpenOutput() (io.WriteCloser, error) {
	return nopWriteCloser{destination.writer}, nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// WriterDestination usa un writer ya abierto (ej: la respuesta HTTP). No lo cierra.
func WriterDestination(writer io.Writer) Destination {
	return writerDestination{writer: writer}
}

type fileDestination string

func (destination fileDestination) OpenOutput() (io.WriteCloser, error) {
	return os.OpenFile(string(destination), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
}

// FileDestination escribe en path, truncándolo.
func FileDestination(path string) Destination {
	return fileDestination(path)
}

// KeyAlias es el nombre de la clave de exportación para un destino.
func KeyAlias(destination string) string {
	return "export_key_" + destination
}

// Exporter cifra items y los deja en archivos de cache privados.
type Exporter struct {
	keys     KeyStore
	cacheDir string

	// rotation serializa el reemplazo de claves: un export no puede borrar
	// la clave que otro acaba de generar.
	rotation sync.Mutex
}

// exportRecord es el formato del archivo exportado: camelCase y precio
// siempre con parte decimal, como lo lee la app Android.
type exportRecord struct {
	ID            int         `json:"id"`
	Name          string      `json:"name"`
	Price         exportPrice `json:"price"`
	Quantity      int         `json:"quantity"`
	Supplier      string      `json:"supplier"`
	SupplierEmail string      `json:"supplierEmail"`
	SupplierPhone string      `json:"supplierPhone"`
}

func newExportRecord(item Item) exportRecord {
	return exportRecord{
		ID:            item.ID,
		Name:          item.Name,
		Price:         exportPrice(item.Price),
		Quantity:      item.Quantity,
		Supplier:      item.Supplier,
		SupplierEmail: item.SupplierEmail,
		SupplierPhone: item.SupplierPhone,
	}
}

// exportPrice serializa 12 como 12.0.
type exportPrice float64

func (price exportPrice) MarshalJSON() ([]byte, error) {
	value := float64(price)
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return nil, fmt.Errorf("price %v is not a number", value)
	}
	text := strconv.FormatFloat(value, 'f', -1, 64)
	if value == math.Trunc(value) {
		text += ".0"
	}
	return []byte(text), nil
}

// NewExporter crea un exporter que escribe en cacheDir.
func NewExporter(keys KeyStore, cacheDir string) *Exporter {
	return &Exporter{keys: keys, cacheDir: cacheDir}
}

// SaveFileToCache serializa item a JSON (exportRecord), lo cifra con una clave nueva para
// destination y escribe iv||ciphertext en un archivo de cache.
func (exporter *Exporter) SaveFileToCache(item Item, destination string) (string, error) {
	payload, err := json.Marshal(newExportRecord(item))
	if err != nil {
		return "", err
	}

	encrypted, err := exporter.encryptData(payload, destination)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(exporter.cacheDir, 0o700); err != nil {
		return "", err
	}
	cacheFile := filepath.Join(exporter.cacheDir, "product_cache-"+uuid.NewString()+".enc")
	if err := os.WriteFile(cacheFile, encrypted, 0o600); err != nil {
		return "", err
	}
	return cacheFile, nil
}

// DumpCacheToSharedStorage copia los bytes de cacheFile a destination.
// Ambos flujos se abren y se cierran dentro de la llamada.
func (exporter *Exporter) DumpCacheToSharedStorage(cacheFile string, destination Destination) (err error) {
	output, err := destination.OpenOutput()
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := output.Close(); err == nil {
			err = closeErr
		}
	}()

	input, err := os.Open(cacheFile)
	if err != nil {
		return err
	}
	defer input.Close()

	_, err = io.Copy(output, input)
	return err
}

// encryptData siempre regenera la clave del destino: un export anterior al
// mismo destino deja de poder descifrarse.
func (exporter *Exporter) encryptData(data []byte, destination string) ([]byte, error) {
	alias := KeyAlias(destination)

	exporter.rotation.Lock()
	key, err := exporter.rotateKey(alias)
	exporter.rotation.Unlock()
	if err != nil {
		return nil, err
	}
	return keystore.EncryptCBC(key, data)
}

func (exporter *Exporter) rotateKey(alias string) ([]byte, error) {
	if exporter.keys.ContainsAlias(alias) {
		if err := exporter.keys.DeleteEntry(alias); err != nil {
			return nil, fmt.Errorf("delete export key: %w", err)
		}
	}
	if err := exporter.keys.GenerateKey(alias); err != nil {
		return nil, fmt.Errorf("generate export key: %w", err)
	}

	return exporter.keys.Key(alias)
}
