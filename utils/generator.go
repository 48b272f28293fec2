package utils

import (
	"crypto/rand"
	"fmt"

	"gorm.io/gorm"

	"github.com/jadesdev/limo-drive/models"
)

const bookingCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateBookingCode produces a unique human-facing reference like
// BK-7K2M9QX4A, retrying on the rare collision.
func GenerateBookingCode(tx *gorm.DB) (string, error) {
	for {
		code, err := randomBookingCode()
		if err != nil {
			return "", err
		}
		var count int64
		if err := tx.Model(&models.Booking{}).Where("code = ?", code).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return code, nil
		}
	}
}

func randomBookingCode() (string, error) {
	buf := make([]byte, 9)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate booking code: %w", err)
	}
	for i, b := range buf {
		buf[i] = bookingCodeAlphabet[int(b)%len(bookingCodeAlphabet)]
	}
	return "BK-" + string(buf), nil
}
