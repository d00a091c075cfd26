package http

import "fmt"

// ETag is a weak validator over a rendered response body.
func ETag(content []byte) string {
	result := 0
	for _, b := range content {
		result = (result*31 + int(b)) % 1000000007
	}
	return fmt.Sprintf(`W/"%d-%d"`, len(content), result)
}
