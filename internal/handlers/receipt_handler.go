package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "centsible/internal/errors"
	"centsible/internal/services"
)

// maxReceiptSize is the upload limit for receipt files.
const maxReceiptSize = 10 << 20 // 10 MiB

// ReceiptHandler handles receipt upload and download for expenses.
type ReceiptHandler struct {
	receiptService services.ReceiptServicer
}

// NewReceiptHandler creates a new ReceiptHandler.
func NewReceiptHandler(receiptService services.ReceiptServicer) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

// UploadReceipt handles attaching a receipt file to an expense.
// @Summary     Upload a receipt
// @Description Attach a receipt image or PDF to an expense. Replaces any previous receipt.
// @Tags        receipts
// @Accept      multipart/form-data
// @Produce     json
// @Security    BearerAuth
// @Param       id   path     string true "Expense ID"
// @Param       file formData file   true "Receipt file (jpg, png, webp, pdf)"
// @Success     201 "Receipt stored"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id}/receipt [post]
func (h *ReceiptHandler) UploadReceipt(c *gin.Context) {
	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "file is required"))
		return
	}
	if fileHeader.Size > maxReceiptSize {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "receipt file too large"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxReceiptSize))
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	if _, err := h.receiptService.Store(expenseID, fileHeader.Filename, data); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusCreated)
}

// DownloadReceipt handles serving an expense's receipt file.
// @Summary     Download a receipt
// @Description Download the receipt attached to an expense
// @Tags        receipts
// @Produce     application/octet-stream
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     200 {file} file "Receipt file"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense or receipt not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id}/receipt [get]
func (h *ReceiptHandler) DownloadReceipt(c *gin.Context) {
	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	path, err := h.receiptService.Open(expenseID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.File(path)
}

// DeleteReceipt handles removing an expense's receipt.
// @Summary     Delete a receipt
// @Description Remove the receipt attached to an expense
// @Tags        receipts
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     204 "Receipt deleted"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense or receipt not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id}/receipt [delete]
func (h *ReceiptHandler) DeleteReceipt(c *gin.Context) {
	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.receiptService.Delete(expenseID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
