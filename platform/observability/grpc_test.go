package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitFullMethod(t *testing.T) {
	svc, method := splitFullMethod("/grpc.health.v1.Health/Check")
	assert.Equal(t, "grpc.health.v1.Health", svc)
	assert.Equal(t, "Check", method)

	svc, method = splitFullMethod("Check")
	assert.Equal(t, "Check", svc)
	assert.Equal(t, "Check", method)
}
