package utils

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Slugify converts a string to a URL-friendly slug
func Slugify(s string) string {
	// Convert to lowercase
	s = strings.ToLower(s)

	// Replace spaces with hyphens
	s = strings.ReplaceAll(s, " ", "-")

	// Remove non-alphanumeric characters except hyphens
	reg := regexp.MustCompile("[^a-z0-9-]")
	s = reg.ReplaceAllString(s, "")

	// Remove multiple consecutive hyphens
	reg = regexp.MustCompile("-+")
	s = reg.ReplaceAllString(s, "-")

	// Trim hyphens from start and end
	s = strings.Trim(s, "-")

	return s
}

// timestampToken returns the second-resolution token used in generated
// document numbers.
func timestampToken() string {
	return time.Now().Format("20060102150405")
}

// GeneratePendingSaleNumber generates a number for a saved pending sale
func GeneratePendingSaleNumber(branchCode string) string {
	return fmt.Sprintf("PENDING_%s_%s", branchCode, timestampToken())
}

// GenerateBillNumber generates the final bill number for a completed sale
func GenerateBillNumber(branchCode string) string {
	return fmt.Sprintf("BILL_%s_%s", branchCode, timestampToken())
}

// GeneratePatientNumber generates a patient registration number
func GeneratePatientNumber(orgCode string) string {
	return fmt.Sprintf("PT_%s_%s", orgCode, timestampToken())
}

// GenerateBulkOrderNumber generates a bulk order number
func GenerateBulkOrderNumber() string {
	return fmt.Sprintf("BO-%s-%s", timestampToken(), strings.ToUpper(uuid.New().String()[:4]))
}

// GenerateBatchNumber generates a batch number for stock imported from a
// bulk order line.
func GenerateBatchNumber(orderNumber string, itemID uuid.UUID) string {
	return fmt.Sprintf("%s-%s", orderNumber, strings.ToUpper(itemID.String()[:8]))
}

// GenerateProductCode generates a unique product code
func GenerateProductCode() string {
	return "MED-" + strings.ToUpper(uuid.New().String()[:8])
}
