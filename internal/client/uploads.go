package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"

	"github.com/fizzy-hq/fizzy-cli/internal/httpclient"
)

// UploadsClient sends multipart/form-data requests. File uploads share the
// regular request pipeline; only body construction differs.
type UploadsClient struct {
	httpClient *httpclient.Client
}

// NewUploadsClient creates a new uploads client.
func NewUploadsClient(httpClient *httpclient.Client) *UploadsClient {
	return &UploadsClient{httpClient: httpClient}
}

// imageContentTypes maps the file extensions the server accepts as images.
// Anything else uploads as application/octet-stream.
var imageContentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// ContentTypeForFile infers a MIME type from the file extension.
func ContentTypeForFile(filePath string) string {
	ext := strings.ToLower(filepath.Ext(filePath))
	if contentType, ok := imageContentTypes[ext]; ok {
		return contentType
	}

	return "application/octet-stream"
}

// UploadFile reads the file at filePath and sends it as the fieldName part
// of a multipart request to path. Nested maps in additionalFields flatten
// one level into parent[child] form fields. The method parameter is usually
// POST but PUT is accepted for replace endpoints.
func (c *UploadsClient) UploadFile(ctx context.Context, method, path, filePath, fieldName string, additionalFields map[string]interface{}) (json.RawMessage, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("reading upload file: %w", err)
	}

	body, contentType, err := buildMultipartBody(filePath, fieldName, data, additionalFields)
	if err != nil {
		return nil, fmt.Errorf("encoding multipart body: %w", err)
	}

	resp, err := c.httpClient.DoRaw(ctx, method, path, body, contentType)
	if err != nil {
		return nil, fmt.Errorf("uploading file: %w", err)
	}

	return resp.Body, nil
}

func buildMultipartBody(filePath, fieldName string, data []byte, additionalFields map[string]interface{}) ([]byte, string, error) {
	var buf bytes.Buffer

	writer := multipart.NewWriter(&buf)

	for name, value := range flattenFields(additionalFields) {
		err := writer.WriteField(name, value)
		if err != nil {
			return nil, "", fmt.Errorf("writing form field %q: %w", name, err)
		}
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, fieldName, filepath.Base(filePath)))
	header.Set("Content-Type", ContentTypeForFile(filePath))

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("creating file part: %w", err)
	}

	_, err = part.Write(data)
	if err != nil {
		return nil, "", fmt.Errorf("writing file part: %w", err)
	}

	err = writer.Close()
	if err != nil {
		return nil, "", fmt.Errorf("closing multipart writer: %w", err)
	}

	return buf.Bytes(), writer.FormDataContentType(), nil
}

// flattenFields expands one level of nested maps into parent[child] keys,
// matching the server's form-encoding convention. Scalars stringify via fmt.
func flattenFields(fields map[string]interface{}) map[string]string {
	flat := make(map[string]string, len(fields))

	for name, value := range fields {
		nested, ok := value.(map[string]interface{})
		if !ok {
			flat[name] = fmt.Sprintf("%v", value)

			continue
		}

		for child, childValue := range nested {
			flat[name+"["+child+"]"] = fmt.Sprintf("%v", childValue)
		}
	}

	return flat
}
