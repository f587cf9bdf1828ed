package common

import "strconv"

func GetString(ptr *string) string {
	if ptr == nil {
		return ""
	}
	return *ptr
}

func GetInt64String(ptr *int64) string {
	if ptr == nil {
		return ""
	}
	return strconv.FormatInt(*ptr, 10)
}
