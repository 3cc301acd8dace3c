package api

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	_ "image/png"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/youruser/catalogapp/internal/clipboard"
	imagepkg "github.com/youruser/catalogapp/internal/image"
	"github.com/youruser/catalogapp/internal/products"
)

const (
	iPhoneUA  = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X)"
	desktopUA = "Mozilla/5.0 (X11; Linux x86_64) Chrome/120"
)

const catalogCSV = "ID,Name,สถานะ,Photo,Price step 1,Note\n" +
	"1,Blue Shirt,พร้อมส่ง,a.png,100 (A),cotton\n" +
	"2,Red Hat,พรีออเดอร์,\"b.png, c.png\",80,\n"

type testServer struct {
	router    *gin.Engine
	handlers  *Handlers
	root      string
	imagesDir string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	root := t.TempDir()
	imagesDir := filepath.Join(root, "images")
	frontend := filepath.Join(root, "dist")
	require.NoError(t, os.MkdirAll(imagesDir, 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(frontend, "assets"), 0o755))
	require.NoError(t, imaging.Save(imaging.New(100, 50, color.NRGBA{R: 0xff, A: 0xff}), filepath.Join(imagesDir, "a.png")))
	require.NoError(t, os.WriteFile(filepath.Join(frontend, "index.html"), []byte("<html>spa</html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(frontend, "assets", "app.js"), []byte("console.log(1)"), 0o644))

	catalogPath := filepath.Join(root, "products.csv")
	require.NoError(t, os.WriteFile(catalogPath, []byte(catalogCSV), 0o644))

	logger := zaptest.NewLogger(t)
	loader := imagepkg.NewLoader(
		imagepkg.WithLocalDir(imagesDir, "/images/"),
		imagepkg.WithLocalOnly(),
		imagepkg.WithTimeout(2*time.Second),
	)
	builder, err := imagepkg.NewBuilder(loader, imagepkg.WithBuilderLogger(logger))
	require.NoError(t, err)

	h := New(Deps{
		Catalog:     products.NewCatalog(catalogPath, ""),
		StatusKey:   "สถานะ",
		Builder:     builder,
		Overlays:    clipboard.NewOverlayStore(time.Minute, "/overlay/"),
		ImagesDir:   imagesDir,
		ImagesURL:   "/images/",
		FrontendDir: frontend,
		Compress:    imagepkg.DefaultCompressOptions(),
		Logger:      logger,
	})
	r := gin.New()
	RegisterRoutes(r, h)
	return &testServer{router: r, handlers: h, root: root, imagesDir: imagesDir}
}

func (s *testServer) do(method, path string, body any, ua string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Host = "192.168.1.10:3001"
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if ua != "" {
		req.Header.Set("User-Agent", ua)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeJSON[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func compositeBody() map[string]any {
	return map[string]any{
		"images": []map[string]string{{"url": "/images/a.png"}, {"url": "/images/missing.png"}},
		"texts":  []map[string]string{{"text": "Hello"}},
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/api/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestProducts(t *testing.T) {
	s := newTestServer(t)

	t.Run("list", func(t *testing.T) {
		w := s.do(http.MethodGet, "/api/products", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		items := decodeJSON[[]map[string]any](t, w)
		require.Len(t, items, 2)
		assert.Equal(t, []any{"b.jpg", "c.jpg"}, items[1]["Photo"])
		assert.NotContains(t, items[1], "Note", "empty cells are omitted")
	})

	t.Run("search is case insensitive", func(t *testing.T) {
		w := s.do(http.MethodGet, "/api/products/search?q=SHIRT", nil, "")
		items := decodeJSON[[]map[string]any](t, w)
		require.Len(t, items, 1)
		assert.Equal(t, "Blue Shirt", items[0]["Name"])
	})

	t.Run("search by status", func(t *testing.T) {
		w := s.do(http.MethodGet, "/api/products/search?status="+url.QueryEscape("พรีออเดอร์"), nil, "")
		items := decodeJSON[[]map[string]any](t, w)
		require.Len(t, items, 1)
		assert.Equal(t, "Red Hat", items[0]["Name"])
	})

	t.Run("statuses", func(t *testing.T) {
		w := s.do(http.MethodGet, "/api/products/statuses", nil, "")
		assert.Equal(t, []string{"พรีออเดอร์", "พร้อมส่ง"}, decodeJSON[[]string](t, w))
	})

	t.Run("text", func(t *testing.T) {
		w := s.do(http.MethodGet, "/api/products/1/text", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		got := decodeJSON[map[string]string](t, w)
		assert.Equal(t, "Blue Shirt\n100\ncotton", got["text"])

		w = s.do(http.MethodGet, "/api/products/99/text", nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("missing catalog", func(t *testing.T) {
		require.NoError(t, os.Remove(filepath.Join(s.root, "products.csv")))
		w := s.do(http.MethodGet, "/api/products", nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":"Products file not found"}`, w.Body.String())
	})
}

func TestQR(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/api/qr?text=hello&size=128", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	img, _, err := image.Decode(w.Body)
	require.NoError(t, err)
	assert.Equal(t, 128, img.Bounds().Dx())

	w = s.do(http.MethodGet, "/api/qr", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestComposite(t *testing.T) {
	s := newTestServer(t)

	t.Run("partial load", func(t *testing.T) {
		w := s.do(http.MethodPost, "/api/composite", compositeBody(), desktopUA)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
		assert.Equal(t, "1", w.Header().Get("X-Images-Loaded"))
		assert.Equal(t, "2", w.Header().Get("X-Images-Requested"))
		assert.Equal(t, "Copied 1 of 2 images (1 failed to load).", w.Header().Get("X-Copy-Note"))

		img, _, err := image.Decode(w.Body)
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 1040, 588), img.Bounds())
	})

	t.Run("empty", func(t *testing.T) {
		w := s.do(http.MethodPost, "/api/composite", map[string]any{}, desktopUA)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"Nothing to copy. Add a photo and/or text items first."}`, w.Body.String())
	})

	t.Run("bad json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/composite", strings.NewReader("{"))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDeliverComposite(t *testing.T) {
	s := newTestServer(t)

	t.Run("desktop gets an attachment", func(t *testing.T) {
		w := s.do(http.MethodPost, "/api/composite/deliver", compositeBody(), desktopUA)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, `attachment; filename="combined-product.png"`, w.Header().Get("Content-Disposition"))
		assert.Equal(t, "Downloaded 1 of 2 images (1 failed to load).", w.Header().Get("X-Copy-Note"))
	})

	t.Run("iPhone gets an overlay", func(t *testing.T) {
		w := s.do(http.MethodPost, "/api/composite/deliver", compositeBody(), iPhoneUA)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		got := decodeJSON[map[string]any](t, w)
		assert.Equal(t, "overlay", got["method"])
		assert.Equal(t, "Copied 1 of 2 images (1 failed to load).", got["note"])
		loc, _ := got["location"].(string)
		require.True(t, strings.HasPrefix(loc, "/overlay/"), loc)

		page := s.do(http.MethodGet, loc, nil, iPhoneUA)
		require.Equal(t, http.StatusOK, page.Code)
		assert.Equal(t, "text/html; charset=utf-8", page.Header().Get("Content-Type"))
		assert.Contains(t, page.Body.String(), "Long-press the image to copy, then paste into LINE")
		assert.Contains(t, page.Body.String(), loc+"/image.png")

		img := s.do(http.MethodGet, loc+"/image.png", nil, iPhoneUA)
		require.Equal(t, http.StatusOK, img.Code)
		assert.Equal(t, "image/png", img.Header().Get("Content-Type"))

		assert.Equal(t, http.StatusNoContent, s.do(http.MethodPost, loc+"/dismiss", nil, iPhoneUA).Code)
		assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, loc, nil, iPhoneUA).Code)
		assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, loc+"/image.png", nil, iPhoneUA).Code)
	})
}

func TestBulkAndSingle(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/bulk", map[string]any{"images": []string{"/images/a.png", "/images/a.png"}}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	img, _, err := image.Decode(w.Body)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 100, 100), img.Bounds())

	w = s.do(http.MethodPost, "/api/bulk", map[string]any{"images": []string{}}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/bulk", map[string]any{"images": []string{"/images/nope.png"}}, "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = s.do(http.MethodPost, "/api/single", map[string]any{"url": "/images/a.png"}, desktopUA)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="product-image.png"`, w.Header().Get("Content-Disposition"))

	w = s.do(http.MethodPost, "/api/single", map[string]any{"url": "/images/nope.png"}, desktopUA)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestImageSourcesStayInImagesDir(t *testing.T) {
	s := newTestServer(t)
	private := filepath.Join(s.root, "private.png")
	require.NoError(t, imaging.Save(imaging.New(10, 10, color.Black), private))
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = imaging.Encode(w, imaging.New(10, 10, color.Black), imaging.PNG)
	}))
	defer remote.Close()

	sources := map[string]string{
		"absolute path":  private,
		"file url":       "file://" + filepath.ToSlash(private),
		"remote host":    remote.URL + "/x.png",
		"relative path":  "private.png",
		"dot-dot prefix": "/images/../private.png",
	}
	for name, src := range sources {
		t.Run(name, func(t *testing.T) {
			body := map[string]any{
				"images": []map[string]string{{"url": src}},
				"texts":  []map[string]string{{"text": "Hello"}},
			}
			w := s.do(http.MethodPost, "/api/composite", body, desktopUA)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.Equal(t, "0", w.Header().Get("X-Images-Loaded"))

			w = s.do(http.MethodPost, "/api/single", map[string]any{"url": src}, desktopUA)
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		})
	}

	t.Run("absolute url under the images prefix reads the images dir", func(t *testing.T) {
		w := s.do(http.MethodPost, "/api/single", map[string]any{"url": "https://shop.example/images/a.png"}, desktopUA)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestCompressImages(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodPost, "/api/compress-images", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	got := decodeJSON[map[string]any](t, w)
	assert.Equal(t, "Image compression started", got["message"])
	assert.EqualValues(t, 1, got["filesFound"])
	assert.Eventually(t, func() bool { return !s.handlers.compressing.Load() }, 5*time.Second, 10*time.Millisecond)

	s.handlers.ImagesDir = filepath.Join(s.root, "missing")
	w = s.do(http.MethodPost, "/api/compress-images", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStaticAndSPA(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/images/a.png", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/api/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Not found"}`, w.Body.String())

	w = s.do(http.MethodGet, "/products/42", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "<html>spa</html>", w.Body.String())

	w = s.do(http.MethodGet, "/assets/app.js", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "console.log(1)", w.Body.String())
}
