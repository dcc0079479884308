package services

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/gorm"

	apperrors "centsible/internal/errors"
	"centsible/internal/models"
)

// allowed receipt extensions, lowercased
var receiptExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".pdf":  true,
	".webp": true,
}

// receiptService stores receipt files on local disk, one file per expense,
// named by expense ID so the path never leaks the uploaded filename.
type receiptService struct {
	db  *gorm.DB
	dir string
}

// NewReceiptService creates a new ReceiptServicer writing under dir.
func NewReceiptService(db *gorm.DB, dir string) ReceiptServicer {
	return &receiptService{db: db, dir: dir}
}

// Store writes the receipt file and records its path on the expense. A
// second upload replaces the previous receipt.
func (s *receiptService) Store(expenseID, filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !receiptExtensions[ext] {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "unsupported receipt file type")
	}

	var expense models.Expense
	if err := s.db.Where("id = ?", expenseID).First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.ErrExpenseNotFound
		}
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	path := filepath.Join(s.dir, fmt.Sprintf("%s%s", expenseID, ext))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// Remove a previous receipt that had a different extension.
	if expense.ReceiptPath != "" && expense.ReceiptPath != path {
		os.Remove(expense.ReceiptPath)
	}

	if err := s.db.Model(&expense).Update("receipt_path", path).Error; err != nil {
		os.Remove(path)
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return path, nil
}

// Open returns the on-disk path of the expense's receipt.
func (s *receiptService) Open(expenseID string) (string, error) {
	var expense models.Expense
	if err := s.db.Where("id = ?", expenseID).First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.ErrExpenseNotFound
		}
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if expense.ReceiptPath == "" {
		return "", apperrors.ErrReceiptNotFound
	}
	if _, err := os.Stat(expense.ReceiptPath); err != nil {
		return "", apperrors.Wrap(apperrors.ErrReceiptNotFound, err)
	}
	return expense.ReceiptPath, nil
}

// Delete removes the expense's receipt from disk and clears the reference.
func (s *receiptService) Delete(expenseID string) error {
	var expense models.Expense
	if err := s.db.Where("id = ?", expenseID).First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrExpenseNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if expense.ReceiptPath == "" {
		return apperrors.ErrReceiptNotFound
	}

	if err := os.Remove(expense.ReceiptPath); err != nil && !os.IsNotExist(err) {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Model(&expense).Update("receipt_path", "").Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
