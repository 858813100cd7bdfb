package main

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/LdDl/colortrack-go/colortrack"
	"github.com/pkg/errors"
)

// parseCSVIntSlice parses a comma-separated list of ints
func parseCSVIntSlice(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid int '%s'", p)
		}
		out = append(out, v)
	}
	return out, nil
}

// parseRect parses "x,y,w,h"
func parseRect(s string) (colortrack.Rectangle, error) {
	vals, err := parseCSVIntSlice(s)
	if err != nil {
		return colortrack.Rectangle{}, err
	}
	if len(vals) != 4 {
		return colortrack.Rectangle{}, errors.Errorf("rectangle must be x,y,w,h, got '%s'", s)
	}
	return colortrack.NewRect(vals[0], vals[1], vals[2], vals[3]), nil
}

// parseBoxes parses "x,y,w,h;x,y,w,h;..." into a flat list
func parseBoxes(s string) ([]int, error) {
	flat := []int{}
	for _, part := range strings.Split(s, ";") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		rect, err := parseRect(part)
		if err != nil {
			return nil, err
		}
		flat = rect.Flatten(flat)
	}
	if len(flat) == 0 {
		return nil, errors.New("at least one box is required")
	}
	return flat, nil
}

// parseSeed parses "index,x,y". Empty string means no seed
func parseSeed(s string) (*colortrack.SeedRequest, error) {
	vals, err := parseCSVIntSlice(s)
	if err != nil {
		return nil, err
	}
	switch len(vals) {
	case 0:
		return nil, nil
	case 3:
		return &colortrack.SeedRequest{Index: vals[0], X: vals[1], Y: vals[2]}, nil
	default:
		return nil, errors.Errorf("seed must be index,x,y, got '%s'", s)
	}
}

var frameExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".webp": true,
}

// listFrames returns image files of dir sorted by name
func listFrames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "Can't read frames directory")
	}
	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !frameExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}
