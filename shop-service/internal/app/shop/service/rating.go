package service

import "math"

// ComputeRatingAggregate считает агрегат рейтинга по списку оценок
// Возвращает среднее, округленное до одного знака, и количество оценок
// Для пустого списка возвращает 0.0 и 0
func ComputeRatingAggregate(ratings []int) (float64, int) {
	if len(ratings) == 0 {
		return 0.0, 0
	}

	sum := 0
	for _, rating := range ratings {
		sum += rating
	}

	average := float64(sum) / float64(len(ratings))

	return math.Round(average*10) / 10, len(ratings)
}
