package storage

import (
	"path"
	"strings"

	"github.com/google/uuid"
)

// Object kinds stored per church
const (
	KindMagazineCover = "covers"
	KindBillReceipt   = "receipts"
)

var allowedExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".pdf": true,
}

// ObjectKey builds a collision-free key such as churches/<id>/covers/<uuid>.png.
// It returns "" when the file extension is not accepted.
func ObjectKey(churchID uuid.UUID, kind, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	if !allowedExtensions[ext] {
		return ""
	}
	return path.Join("churches", churchID.String(), kind, uuid.NewString()+ext)
}
