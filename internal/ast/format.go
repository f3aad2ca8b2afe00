package ast

import "strconv"

func itoa(v int64) string { return strconv.FormatInt(v, 10) }
func ftoa(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
func boolStr(v bool) string { return strconv.FormatBool(v) }
