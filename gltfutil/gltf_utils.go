// Package gltfutil loads and saves glTF documents by file extension.
package gltfutil

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
)

func Load(path string) (*gltf.Document, error) {
	return gltf.Open(path)
}

// Save writes doc as binary glTF for .glb and .vrm, or as JSON glTF with a
// .bin buffer next to it for .gltf.
func Save(doc *gltf.Document, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".glb", ".vrm":
		return gltf.SaveBinary(doc, path)
	case ".gltf":
		SetBufferURIs(doc, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
		return gltf.Save(doc, path)
	}
	return fmt.Errorf("gltfutil: unsupported output type %q", filepath.Ext(path))
}

// SetBufferURIs names unnamed buffers base.bin, base1.bin and so on.
func SetBufferURIs(doc *gltf.Document, base string) {
	for i, b := range doc.Buffers {
		if b.URI != "" {
			continue
		}
		if i == 0 {
			b.URI = base + ".bin"
		} else {
			b.URI = fmt.Sprintf("%s%d.bin", base, i)
		}
	}
}

// JointCount returns the number of joints in every skin of doc.
func JointCount(doc *gltf.Document) int {
	n := 0
	for _, skin := range doc.Skins {
		n += len(skin.Joints)
	}
	return n
}
