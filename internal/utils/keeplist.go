package utils

import (
	"bufio"
	"os"
	"strings"
)

// KeepList holds title terms that must never be deleted
type KeepList struct {
	terms []string
}

// NewKeepList builds a keep-list from in-memory terms
func NewKeepList(terms ...string) *KeepList {
	kl := &KeepList{}
	for _, term := range terms {
		if term = strings.TrimSpace(term); term != "" {
			kl.terms = append(kl.terms, term)
		}
	}
	return kl
}

// LoadKeepList loads keep-list terms from a file, one per line.
// A missing file yields an empty list.
func LoadKeepList(path string) (*KeepList, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &KeepList{}, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var terms []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		term := strings.TrimSpace(scanner.Text())
		if term != "" && !strings.HasPrefix(term, "#") {
			terms = append(terms, term)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return &KeepList{terms: terms}, nil
}

// IsProtected checks if a title matches any keep-list term
// Returns (isProtected, matchedTerm)
func (k *KeepList) IsProtected(title string) (bool, string) {
	if k == nil {
		return false, ""
	}
	titleLower := strings.ToLower(title)

	for _, term := range k.terms {
		if strings.Contains(titleLower, strings.ToLower(term)) {
			return true, term
		}
	}

	return false, ""
}

// Len returns the number of terms
func (k *KeepList) Len() int {
	if k == nil {
		return 0
	}
	return len(k.terms)
}
