package images

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func newImagesTS(t *testing.T) *httptest.Server {
	t.Helper()

	store, err := NewDiskStore(t.TempDir(), "/images/products")
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}
	s := &Server{Store: store, Log: zap.NewNop()}

	r := chi.NewRouter()
	r.Post("/upload", s.Upload)
	r.Get("/images", s.List)
	r.Delete("/images/*", s.Delete)
	return httptest.NewServer(r)
}

func multipartUpload(t *testing.T, url, fieldName, fileName, contentType string, data []byte) (*http.Response, []byte) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", `form-data; name="`+fieldName+`"; filename="`+fileName+`"`)
	hdr.Set("Content-Type", contentType)
	part, err := mw.CreatePart(hdr)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, raw
}

func TestUpload_Roundtrip(t *testing.T) {
	ts := newImagesTS(t)
	t.Cleanup(ts.Close)

	resp, raw := multipartUpload(t, ts.URL+"/upload", "image", "rosa.jpg", "image/jpeg", []byte("jpeg-bytes"))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("upload status=%d body=%s", resp.StatusCode, raw)
	}

	var img Image
	if err := json.Unmarshal(raw, &img); err != nil || img.ID == "" {
		t.Fatalf("img=%+v err=%v", img, err)
	}

	listResp, listRaw := getJSON(t, ts.URL+"/images")
	if listResp.StatusCode != http.StatusOK {
		t.Fatalf("list status=%d", listResp.StatusCode)
	}
	var imgs []Image
	if err := json.Unmarshal(listRaw, &imgs); err != nil || len(imgs) != 1 {
		t.Fatalf("imgs=%v err=%v", imgs, err)
	}

	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/images/"+img.ID, nil)
	delResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	delResp.Body.Close()
	if delResp.StatusCode != http.StatusOK {
		t.Fatalf("delete status=%d", delResp.StatusCode)
	}
}

func getJSON(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()

	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return resp, raw
}

func TestUpload_RejectsNonImages(t *testing.T) {
	ts := newImagesTS(t)
	t.Cleanup(ts.Close)

	resp, raw := multipartUpload(t, ts.URL+"/upload", "image", "notes.txt", "text/plain", []byte("hello"))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s", resp.StatusCode, raw)
	}
}

func TestUpload_RequiresImageField(t *testing.T) {
	ts := newImagesTS(t)
	t.Cleanup(ts.Close)

	resp, raw := multipartUpload(t, ts.URL+"/upload", "file", "rosa.jpg", "image/jpeg", []byte("jpeg-bytes"))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s", resp.StatusCode, raw)
	}
}

func TestDeleteImage_NotFound(t *testing.T) {
	ts := newImagesTS(t)
	t.Cleanup(ts.Close)

	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/images/absent.jpg", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status=%d", resp.StatusCode)
	}
}
