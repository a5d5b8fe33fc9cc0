package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"assistance-service/internal/apperrors"
	"assistance-service/internal/models"
)

// maxReportDocumentSize caps uploaded report documents at 50MB.
const maxReportDocumentSize = 50 * 1024 * 1024

// ReportObjectStore is the object-storage surface needed for stay report
// documents. The MinIO client satisfies it.
type ReportObjectStore interface {
	UploadBytes(ctx context.Context, objectName string, data []byte, contentType string) error
	GetPresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error)
	DeleteFile(ctx context.Context, objectName string) error
}

// ReportDocumentService stores the signed PDF copy of a stay's medical
// report and links it to the stay record.
type ReportDocumentService struct {
	stayStore   HospitalStayStore
	objectStore ReportObjectStore
}

func NewReportDocumentService(stayStore HospitalStayStore, objectStore ReportObjectStore) *ReportDocumentService {
	return &ReportDocumentService{
		stayStore:   stayStore,
		objectStore: objectStore,
	}
}

// ValidatePDF checks the document is a structurally sound PDF.
func ValidatePDF(data []byte) error {
	if len(data) == 0 {
		return errors.New("empty PDF data")
	}
	if len(data) > maxReportDocumentSize {
		return fmt.Errorf("PDF too large: %d bytes (max: %d)", len(data), maxReportDocumentSize)
	}
	if !isPDF(data) {
		return errors.New("invalid PDF format")
	}
	if err := api.Validate(bytes.NewReader(data), nil); err != nil {
		return fmt.Errorf("PDF failed validation: %w", err)
	}
	return nil
}

// isPDF checks if data starts with PDF magic bytes
func isPDF(data []byte) bool {
	return len(data) > 4 && string(data[:4]) == "%PDF"
}

// AttachReportDocument validates and stores the PDF document for a stay whose
// report has been submitted, then records the object name on the stay.
func (s *ReportDocumentService) AttachReportDocument(ctx context.Context, stayID uuid.UUID, document []byte) (*models.HospitalStay, error) {
	if err := ValidatePDF(document); err != nil {
		return nil, apperrors.Wrap(apperrors.KindInvalidInput, "invalid report document", err)
	}

	stay, err := s.stayStore.GetByID(ctx, stayID)
	if err != nil {
		return nil, fmt.Errorf("failed to load hospital stay: %w", err)
	}
	if stay.Status == models.StayAdmitted || stay.Status == models.StayReportPending {
		return nil, apperrors.Newf(apperrors.KindInvalidStayState,
			"stay %s is %s, document upload requires a submitted report", stay.ID, stay.Status)
	}

	objectName := fmt.Sprintf("stays/%s/report_%d.pdf", stay.ID, time.Now().Unix())
	if err := s.objectStore.UploadBytes(ctx, objectName, document, "application/pdf"); err != nil {
		return nil, fmt.Errorf("failed to store report document: %w", err)
	}

	stay.ReportDocumentURL = &objectName
	if err := s.stayStore.Update(ctx, stay); err != nil {
		// Best effort: drop the orphaned object before surfacing the error.
		if delErr := s.objectStore.DeleteFile(ctx, objectName); delErr != nil {
			slog.Error("Failed to clean up orphaned report document", "object", objectName, "error", delErr)
		}
		return nil, err
	}

	slog.Info("Report document attached",
		"stay_id", stay.ID,
		"object", objectName,
		"size_bytes", len(document))
	return stay, nil
}

// ReportDocumentURL returns a time-limited download link for a stay's stored
// report document.
func (s *ReportDocumentService) ReportDocumentURL(ctx context.Context, stayID uuid.UUID, expiry time.Duration) (string, error) {
	stay, err := s.stayStore.GetByID(ctx, stayID)
	if err != nil {
		return "", fmt.Errorf("failed to load hospital stay: %w", err)
	}
	if stay.ReportDocumentURL == nil {
		return "", apperrors.New(apperrors.KindNotFound, "stay has no report document")
	}
	return s.objectStore.GetPresignedURL(ctx, *stay.ReportDocumentURL, expiry)
}
