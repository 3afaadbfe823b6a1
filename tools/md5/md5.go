// Package md5 provides a local tool that hashes text with MD5.
package md5

import (
	"context"
	"crypto/md5" //nolint:gosec
	"encoding/hex"
	"reflect"

	"github.com/effective-security/mcpagent/pkg/schema"
	"github.com/effective-security/mcpagent/tools"
)

// ToolName is the name of the tool in the catalog
const ToolName = "md5"

// Request is the tool input.
type Request struct {
	Text string `json:"text" yaml:"text" jsonschema:"title=Text,description=The text to hash."`
}

// Result is the tool output.
type Result struct {
	Digest string `json:"digest" yaml:"digest"`
}

// Tool returns the hex encoded MD5 digest of the text
type Tool struct{}

var _ tools.Tool[Request, Result] = (*Tool)(nil)

// New returns the tool
func New() *Tool {
	return &Tool{}
}

func (t *Tool) Name() string {
	return ToolName
}

func (t *Tool) Description() string {
	return "Returns the hex encoded MD5 digest of the text."
}

func (t *Tool) Parameters() *schema.Schema {
	return schema.MustFromType(reflect.TypeOf(Request{}))
}

func (t *Tool) Run(_ context.Context, req *Request) (*Result, error) {
	sum := md5.Sum([]byte(req.Text)) //nolint:gosec
	return &Result{Digest: hex.EncodeToString(sum[:])}, nil
}

// Call returns the digest as plain text
func (t *Tool) Call(ctx context.Context, args tools.Arguments) (string, error) {
	req, err := tools.Decode[Request](args)
	if err != nil {
		return "", err
	}
	out, err := t.Run(ctx, req)
	if err != nil {
		return "", err
	}
	return out.Digest, nil
}
