package service

import "errors"

var (
	// Ошибки бизнес-логики для обработки в handlers
	ErrProductNotFound = errors.New("product not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrReviewNotFound  = errors.New("review not found")
	ErrDuplicateReview = errors.New("review already exists for this product")
	ErrForbidden       = errors.New("access denied")
)
