package parser

import "strconv"

func parseNatural(lit string) (int64, error) {
	return strconv.ParseInt(lit, 10, 64)
}
