// Package fotos sirve las fotos de carnet de los socios desde el disco.
// El archivo se llama <usuario_id>.<ext> dentro del directorio
// configurado; si el socio no tiene foto se responde el avatar por
// defecto.
package fotos

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gymcontrol/internal/common"
)

// extensiones se prueban en orden al buscar la foto de un socio.
var extensiones = []string{".jpg", ".JPG", ".jpeg", ".JPEG", ".png", ".PNG"}

var mimePorExtension = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Ruta devuelve la ruta de la foto del socio, probando cada extensión
// conocida. Si no hay archivo devuelve ErrNoEncontrado.
func (s *Store) Ruta(usuarioID int) (string, error) {
	base := strconv.Itoa(usuarioID)
	for _, ext := range extensiones {
		ruta := filepath.Join(s.dir, base+ext)
		if info, err := os.Stat(ruta); err == nil && !info.IsDir() {
			return ruta, nil
		}
	}
	return "", fmt.Errorf("foto del usuario %d: %w", usuarioID, common.ErrNoEncontrado)
}

// Existe responde si el socio tiene foto en disco.
func (s *Store) Existe(usuarioID int) bool {
	_, err := s.Ruta(usuarioID)
	return err == nil
}

// Guardar escribe la foto del socio como JPEG y elimina cualquier
// variante anterior con otra extensión.
func (s *Store) Guardar(usuarioID int, datos []byte) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: creando directorio de fotos: %v", common.ErrAlmacenamiento, err)
	}

	if previa, err := s.Ruta(usuarioID); err == nil {
		_ = os.Remove(previa)
	}

	ruta := filepath.Join(s.dir, strconv.Itoa(usuarioID)+".jpg")
	if err := os.WriteFile(ruta, datos, 0o644); err != nil {
		return "", fmt.Errorf("%w: guardando foto del usuario %d: %v", common.ErrAlmacenamiento, usuarioID, err)
	}
	return ruta, nil
}

// Eliminar borra la foto del socio. Sin foto no es un error: la
// operación es idempotente, igual que las bajas lógicas.
func (s *Store) Eliminar(usuarioID int) error {
	ruta, err := s.Ruta(usuarioID)
	if err != nil {
		return nil
	}
	if err := os.Remove(ruta); err != nil {
		return fmt.Errorf("%w: eliminando foto del usuario %d: %v", common.ErrAlmacenamiento, usuarioID, err)
	}
	return nil
}

// MIME deduce el tipo de contenido por la extensión del archivo.
func MIME(ruta string) string {
	ext := filepath.Ext(ruta)
	// Las variantes en mayúsculas comparten tipo con las minúsculas.
	switch ext {
	case ".JPG", ".JPEG":
		ext = ".jpg"
	case ".PNG":
		ext = ".png"
	}
	if m, ok := mimePorExtension[ext]; ok {
		return m
	}
	return "application/octet-stream"
}
