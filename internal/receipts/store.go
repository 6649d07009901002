// Package receipts writes payment receipts into a month-structured
// directory tree on the local filesystem.
package receipts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

var uaMonths = map[time.Month]string{
	time.January:   "Січень",
	time.February:  "Лютий",
	time.March:     "Березень",
	time.April:     "Квітень",
	time.May:       "Травень",
	time.June:      "Червень",
	time.July:      "Липень",
	time.August:    "Серпень",
	time.September: "Вересень",
	time.October:   "Жовтень",
	time.November:  "Листопад",
	time.December:  "Грудень",
}

// Store saves receipts under dir/<Month Year>/.
type Store struct {
	dir    string
	logger *zap.Logger
}

// NewStore ensures the base directory exists.
func NewStore(dir string, logger *zap.Logger) (*Store, error) {
	if dir == "" {
		dir = "./receipts"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create receipts dir: %w", err)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("receipts dir path: %w", err)
	}
	logger.Info("receipts directory ready", zap.String("dir", abs))
	return &Store{dir: abs, logger: logger}, nil
}

// Save writes the receipt and returns its absolute path. The month
// directory and the timestamp in the filename come from the order-id's
// embedded slot time, so receipts group by appointment month and two
// orders issued the same instant still get distinct names (the order id
// or customer name is part of the filename).
func (s *Store) Save(orderID string, data []byte, userName, ext string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("receipts: empty receipt content")
	}

	dt, ok := parseOrderTime(orderID)
	if !ok {
		dt = time.Now()
	}

	monthDir := filepath.Join(s.dir, fmt.Sprintf("%s %d", monthName(dt.Month()), dt.Year()))
	if err := os.MkdirAll(monthDir, 0o755); err != nil {
		return "", fmt.Errorf("create month dir: %w", err)
	}

	path := filepath.Join(monthDir, filename(dt, userName, orderID, ext))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write receipt: %w", err)
	}

	s.logger.Info("receipt saved", zap.String("order", orderID), zap.String("path", path))
	return path, nil
}

func monthName(m time.Month) string {
	if name, ok := uaMonths[m]; ok {
		return name
	}
	return fmt.Sprintf("%d", int(m))
}

// parseOrderTime recovers the slot time from "YYYYMMDD-HHMM-<uid>".
func parseOrderTime(orderID string) (time.Time, bool) {
	parts := strings.SplitN(orderID, "-", 3)
	if len(parts) < 2 {
		return time.Time{}, false
	}
	dt, err := time.Parse("20060102 1504", parts[0]+" "+parts[1])
	if err != nil {
		return time.Time{}, false
	}
	return dt, true
}

func filename(dt time.Time, userName, orderID, ext string) string {
	stamp := dt.Format("2006-01-02_1504")
	base := stamp + "__order_" + orderID
	if userName != "" {
		base = stamp + "__" + userName
	}
	return safeFilename(base) + "." + strings.TrimPrefix(ext, ".")
}

// safeFilename keeps letters, digits and a small allow-list of
// punctuation, dropping anything a filesystem might object to.
func safeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_' || r == '.' || r == '#' || r == ' ':
			b.WriteRune(r)
		default:
			// Cyrillic names are common; keep letters from any script
			if isLetter(r) {
				b.WriteRune(r)
			}
		}
	}
	return strings.TrimSpace(b.String())
}

func isLetter(r rune) bool {
	return (r >= 'А' && r <= 'я') || r == 'і' || r == 'І' || r == 'ї' || r == 'Ї' || r == 'є' || r == 'Є' || r == 'ґ' || r == 'Ґ'
}
