package llm

import (
	"strconv"
	"strings"
)

// VectorLiteral renders a vector in pgvector's text form, six decimals per component: "[0.100000,-0.250000]"
func VectorLiteral(vector []float32) string {
	var b strings.Builder
	b.Grow(len(vector)*10 + 2)
	b.WriteByte('[')
	for i, v := range vector {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(v), 'f', 6, 32))
	}
	b.WriteByte(']')
	return b.String()
}
