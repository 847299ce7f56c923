package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"wedding-planner/internal/shared/apperr"
	"wedding-planner/internal/shared/assets"
)

const multipartMemory = 8 << 20

// Form 统一的请求字段视图：multipart、urlencoded、JSON 三种请求体
type Form struct {
	values map[string]string
	files  map[string][]*multipart.FileHeader
}

// ReadForm 解析请求体；maxBody 为请求体上限（0 表示不限制）
func ReadForm(w http.ResponseWriter, r *http.Request, maxBody int64) (*Form, error) {
	if maxBody > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	}

	f := &Form{values: map[string]string{}}
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "multipart/form-data":
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			return nil, bodyError(err)
		}
		for k, v := range r.MultipartForm.Value {
			if len(v) > 0 {
				f.values[k] = v[0]
			}
		}
		f.files = r.MultipartForm.File
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return nil, bodyError(err)
		}
		for k := range r.PostForm {
			f.values[k] = r.PostForm.Get(k)
		}
	case "application/json":
		var raw map[string]any
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
			return nil, bodyError(err)
		}
		for k, v := range raw {
			f.values[k] = stringify(v)
		}
	}
	return f, nil
}

func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apperr.Validation(fmt.Sprintf("File too large (max %d MB)", tooLarge.Limit>>20))
	}
	return apperr.Validation("Invalid request body")
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		b, _ := json.Marshal(t)
		return string(b)
	}
}

// Get 字段原值，缺失为 ""
func (f *Form) Get(key string) string {
	return f.values[key]
}

// File 取出上传文件并按 policy 校验；字段缺失时返回 (nil, nil)
// 调用方负责关闭返回的 Upload
func (f *Form) File(field string, policy assets.Policy) (*assets.Upload, error) {
	headers := f.files[field]
	if len(headers) == 0 {
		return nil, nil
	}
	fh := headers[0]
	upload := &assets.Upload{
		Name:        fh.Filename,
		Size:        fh.Size,
		ContentType: strings.TrimSpace(fh.Header.Get("Content-Type")),
	}
	if err := policy.Check(upload); err != nil {
		return nil, err
	}
	file, err := fh.Open()
	if err != nil {
		return nil, apperr.Validation("Invalid file upload")
	}
	upload.Body = file
	return upload, nil
}
