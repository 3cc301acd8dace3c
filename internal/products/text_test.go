package products

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripTier(t *testing.T) {
	assert.Equal(t, "150 บาท", StripTier("150 บาท (B)"))
	assert.Equal(t, "150", StripTier("150"))
	assert.Equal(t, "(a)", StripTier("(a)"), "only upper-case tiers are stripped")
}

func TestPriceStepText(t *testing.T) {
	assert.Equal(t, "Step 2: 90", PriceStepText("Price step 2", "90 (C)"))
	assert.Equal(t, "Price 1: 10", PriceStepText("Price 1", "10"))
}

func TestFullText(t *testing.T) {
	p := Product{
		"ชื่อ":           "Tote",
		"Product detail": "Canvas, 40cm",
		"Price step 1":   "100 (A)",
		"Price step 3":   "80 (C)",
		"Note":           "ships Monday",
		"Photo":          []string{"tote.jpg"},
	}
	assert.Equal(t, "Tote\nCanvas, 40cm\n100\n80\nships Monday", FullText(p))
	assert.Equal(t, "", FullText(Product{"Photo": []string{}}))
}
