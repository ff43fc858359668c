package http

import (
	"net/http"
	"strconv"
	"time"

	"kartrm/pkg/config"
	apperrors "kartrm/pkg/errors"
)

func ExtractLimitOffset(r *http.Request) (int, int64, error) {
	query := r.URL.Query()

	limit := 0
	if s := query.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid limit parameter: " + s)
		}
		limit = v
	}

	var offset int64 = 0
	if s := query.Get("offset"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid offset parameter: " + s)
		}
		offset = int64(v)
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	return limit, offset, nil
}

// ExtractDate reads a required yyyy-mm-dd query parameter.
func ExtractDate(r *http.Request, param string) (time.Time, error) {
	s := r.URL.Query().Get(param)
	if s == "" {
		return time.Time{}, apperrors.InvalidInput("missing required parameter: " + param)
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, apperrors.InvalidInput("invalid " + param + " format, must be yyyy-mm-dd")
	}
	return t, nil
}
