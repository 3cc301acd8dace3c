package api

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
)

var overlayTemplate = template.Must(template.New("overlay").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Copy image</title>
<style>
body{margin:0;background:rgba(0,0,0,.9);color:#fff;font-family:sans-serif;display:flex;flex-direction:column;align-items:center;justify-content:center;min-height:100vh}
img{max-width:90vw;max-height:70vh;-webkit-touch-callout:default;user-select:auto}
p{margin:16px;font-size:16px;text-align:center}
button{position:fixed;top:12px;right:12px;font-size:24px;background:none;border:0;color:#fff}
</style>
</head>
<body>
<button id="close" aria-label="Close">&times;</button>
<img src="{{.ImageURL}}" alt="composite">
<p>Long-press the image to copy, then paste into LINE</p>
<script>
(function(){
  var done=false;
  function dismiss(){
    if(done)return;done=true;
    fetch({{.DismissURL}},{method:"POST"}).catch(function(){});
    if(history.length>1){history.back();}else{window.close();}
  }
  document.getElementById("close").onclick=dismiss;
  setTimeout(dismiss,{{.RemainingMillis}});
})();
</script>
</body>
</html>
`))

type overlayView struct {
	ImageURL        string
	DismissURL      string
	RemainingMillis int64
}

func (h *Handlers) overlayPage(c *gin.Context) {
	if h.Overlays == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "overlay expired"})
		return
	}
	id := c.Param("id")
	if _, ok := h.Overlays.Get(id); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "overlay expired"})
		return
	}
	view := overlayView{
		ImageURL:        "/overlay/" + id + "/image.png",
		DismissURL:      "/overlay/" + id + "/dismiss",
		RemainingMillis: h.Overlays.Remaining(id).Milliseconds(),
	}
	c.Header("Cache-Control", "no-store")
	c.HTML(http.StatusOK, overlayTemplate.Name(), view)
}

func (h *Handlers) overlayImage(c *gin.Context) {
	if h.Overlays == nil {
		c.Status(http.StatusNotFound)
		return
	}
	data, ok := h.Overlays.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "overlay expired"})
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", data)
}

func (h *Handlers) dismissOverlay(c *gin.Context) {
	if h.Overlays != nil {
		h.Overlays.Dismiss(c.Param("id"))
	}
	c.Status(http.StatusNoContent)
}
