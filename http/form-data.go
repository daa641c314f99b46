package http

import (
	"bytes"
	"io"
	"mime/multipart"
)

type formEntry struct {
	name     string
	value    string
	filename string
	content  []byte
}

// FormData is an ordered list of multipart fields, sent as multipart/form-data.
type FormData struct {
	entries []*formEntry
}

func NewFormData() *FormData {
	return &FormData{}
}

// Append adds a text field. Repeated names are kept.
func (f *FormData) Append(name, value string) {
	f.entries = append(f.entries, &formEntry{name: name, value: value})
}

// AppendFile adds a file field.
func (f *FormData) AppendFile(name, filename string, content []byte) {
	f.entries = append(f.entries, &formEntry{name: name, filename: filename, content: content})
}

// Set replaces every field called name with a single text field.
func (f *FormData) Set(name, value string) {
	f.Delete(name)
	f.Append(name, value)
}

func (f *FormData) Delete(name string) {
	entries := f.entries[:0]
	for _, e := range f.entries {
		if e.name != name {
			entries = append(entries, e)
		}
	}
	f.entries = entries
}

// Get returns the first text value stored under name.
func (f *FormData) Get(name string) (string, bool) {
	for _, e := range f.entries {
		if e.name == name && e.filename == "" {
			return e.value, true
		}
	}
	return "", false
}

func (f *FormData) Len() int {
	return len(f.entries)
}

// Encode renders the multipart body and its Content-Type (with boundary).
func (f *FormData) Encode() (io.Reader, string, error) {
	buf := new(bytes.Buffer)
	w := multipart.NewWriter(buf)
	for _, e := range f.entries {
		if e.filename != "" {
			part, err := w.CreateFormFile(e.name, e.filename)
			if err != nil {
				return nil, "", err
			}
			if _, err := part.Write(e.content); err != nil {
				return nil, "", err
			}
			continue
		}
		if err := w.WriteField(e.name, e.value); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}
