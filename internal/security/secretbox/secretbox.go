// Package secretbox ofusca client secrets para almacenamiento at-rest.
//
// El esquema es XOR byte a byte (sobre code units UTF-16) contra una clave
// repetida derivada de AUTH_SECRET, con salida en base64. NO es criptografía
// real: solo evita que un secret quede legible en un dump de la base. El
// contrato (round-trip en el mismo proceso, vacío<->vacío, entrada inválida
// tolerada en el boundary) debe preservarse si algún día se reemplaza por
// cifrado autenticado.
package secretbox

import (
	"encoding/base64"
	"errors"
	"os"
	"strings"
	"sync"
	"unicode/utf16"
)

const keyEnvVar = "AUTH_SECRET"

// DefaultKey clave de desarrollo usada cuando AUTH_SECRET no está seteada.
// La config aplica el mismo default al secret de firma para que todo el
// deploy comparta una sola clave efectiva.
const DefaultKey = "default-key"

var (
	mu        sync.RWMutex
	keyUnits  []uint16
	isDefault bool
	loadOnce  sync.Once
)

// ErrMalformedCiphertext indica que el ciphertext no es base64 válido.
var ErrMalformedCiphertext = errors.New("secretbox: malformed ciphertext")

// ensureLoaded carga la clave desde AUTH_SECRET una sola vez.
// Si no está seteada cae al default (weak spot documentado: el operador
// DEBE setear AUTH_SECRET en producción).
func ensureLoaded() {
	loadOnce.Do(func() {
		k := strings.TrimSpace(os.Getenv(keyEnvVar))
		mu.Lock()
		defer mu.Unlock()
		if k == "" {
			k = DefaultKey
			isDefault = true
		}
		keyUnits = utf16.Encode([]rune(k))
	})
}

// UsingDefaultKey expone si se está usando la clave por defecto
// (útil para warning en el arranque).
func UsingDefaultKey() bool {
	ensureLoaded()
	mu.RLock()
	defer mu.RUnlock()
	return isDefault
}

func currentKey() []uint16 {
	ensureLoaded()
	mu.RLock()
	defer mu.RUnlock()
	k := make([]uint16, len(keyUnits))
	copy(k, keyUnits)
	return k
}

// Encrypt ofusca plain y devuelve base64. Encrypt("") == "".
func Encrypt(plain string) string {
	if plain == "" {
		return ""
	}
	key := currentKey()
	units := utf16.Encode([]rune(plain))
	for i := range units {
		units[i] ^= key[i%len(key)]
	}
	return base64.StdEncoding.EncodeToString([]byte(string(utf16.Decode(units))))
}

// Decrypt revierte Encrypt. Decrypt("") == ("", nil).
// Ciphertext no-base64 devuelve ErrMalformedCiphertext: el caller decide si
// degrada a "" (ver DecryptOrEmpty) o lo propaga.
func Decrypt(cipher string) (string, error) {
	if cipher == "" {
		return "", nil
	}
	raw, err := base64.StdEncoding.DecodeString(cipher)
	if err != nil {
		return "", ErrMalformedCiphertext
	}
	key := currentKey()
	units := utf16.Encode([]rune(string(raw)))
	for i := range units {
		units[i] ^= key[i%len(key)]
	}
	return string(utf16.Decode(units)), nil
}

// DecryptOrEmpty mapea cualquier error de Decrypt a "".
// Usar SOLO en el boundary de lectura del registry, donde el comportamiento
// observado es degradar a secret vacío (el provider queda inactivo).
func DecryptOrEmpty(cipher string) string {
	s, err := Decrypt(cipher)
	if err != nil {
		return ""
	}
	return s
}

// --- Helpers para tests ---

// UnsafeResetKeyForTests borra estado interno. Usar sólo en tests.
func UnsafeResetKeyForTests() {
	mu.Lock()
	keyUnits = nil
	isDefault = false
	mu.Unlock()
	loadOnce = sync.Once{}
}

// UnsafeSetKeyForTests fija una clave cruda en tests.
func UnsafeSetKeyForTests(k string) {
	UnsafeResetKeyForTests()
	loadOnce.Do(func() {
		mu.Lock()
		defer mu.Unlock()
		keyUnits = utf16.Encode([]rune(k))
	})
}
