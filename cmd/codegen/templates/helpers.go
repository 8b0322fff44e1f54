package templates

import (
	"strings"
)

// Type parameters skip O, it is the output type.
const letters = "ABCDEFGHIJKLMNPQRSTUVWXYZ"

func joined(count int, each func(upper, lower string) string) string {
	var sb strings.Builder
	for i := 0; i < count; i++ {
		upper := letters[i : i+1]
		sb.WriteString(each(upper, strings.ToLower(upper)))
		if i < count-1 {
			sb.WriteString(", ")
		}
	}
	return sb.String()
}

func typeParams(count int) string {
	return joined(count, func(upper, _ string) string { return upper })
}

func names(count int) string {
	return joined(count, func(_, lower string) string { return lower })
}

func readableParams(count int) string {
	return joined(count, func(upper, lower string) string {
		return lower + " Readable[" + upper + "]"
	})
}

func valueParams(count int) string {
	return joined(count, func(upper, lower string) string {
		return lower + " " + upper
	})
}

func reads(count int, method string) string {
	return joined(count, func(_, lower string) string {
		return lower + "." + method + "()"
	})
}
