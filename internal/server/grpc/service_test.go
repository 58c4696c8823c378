package grpc

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/dmitrijs2005/friendbook/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceDesc_MatchesProtoFile(t *testing.T) {
	src, err := os.ReadFile(filepath.Join("..", "..", "..", "proto", filepath.FromSlash(userServiceDesc.Metadata.(string))))
	require.NoError(t, err)
	proto := string(src)

	pkg, svc, ok := strings.Cut(common.UserServiceName, ".v1.")
	require.True(t, ok)
	assert.Contains(t, proto, "package "+pkg+".v1;")
	assert.Contains(t, proto, "service "+svc+" {")

	rpc := regexp.MustCompile(`rpc (\w+)\(google\.protobuf\.Struct\) returns \(google\.protobuf\.Struct\);`)
	var declared []string
	for _, m := range rpc.FindAllStringSubmatch(proto, -1) {
		declared = append(declared, m[1])
	}

	var registered []string
	for _, m := range userServiceDesc.Methods {
		registered = append(registered, m.MethodName)
	}
	assert.ElementsMatch(t, registered, declared)
}
