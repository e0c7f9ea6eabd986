package scanner

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Item is one slip to scan. Any of the inputs may be empty; the scanner uses
// whichever its collaborators can read.
type Item struct {
	ID        string
	Image     []byte
	MIMEType  string
	QRPayload string
	Text      string
}

func (it Item) content() []byte {
	if len(it.Image) > 0 {
		return it.Image
	}
	if it.QRPayload == "" && it.Text == "" {
		return nil
	}
	return []byte(it.QRPayload + "\n" + it.Text)
}

var imageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".heic": "image/heic",
}

// LoadItems groups the files directly inside dir by base name: an image,
// a decoded QR payload (.qr) and OCR text (.txt) with the same name form
// one item.
func LoadItems(dir string) ([]Item, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	byID := map[string]*Item{}
	get := func(id string) *Item {
		if it, ok := byID[id]; ok {
			return it
		}
		it := &Item{ID: id}
		byID[id] = it
		return it
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		ext := strings.ToLower(filepath.Ext(name))
		id := strings.TrimSuffix(name, filepath.Ext(name))

		mimeType, isImage := imageTypes[ext]
		if !isImage && ext != ".qr" && ext != ".txt" {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}

		it := get(id)
		switch {
		case isImage:
			it.Image = data
			it.MIMEType = mimeType
		case ext == ".qr":
			it.QRPayload = strings.TrimSpace(string(data))
		default:
			it.Text = string(data)
		}
	}

	items := make([]Item, 0, len(byID))
	for _, it := range byID {
		items = append(items, *it)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}
