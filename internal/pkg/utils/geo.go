package utils

// ValidateCoordinates проверяет, что координаты лежат в диапазонах WGS84
func ValidateCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
