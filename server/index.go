package server

import (
	"fmt"
	"net/http"
)

// handleIndex serves a page that paints /api/frame onto a canvas every
// animation frame
func handleIndex() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, indexHTML)
	}
}

const indexHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>driftgraph</title>
  <style>
    html, body {
      margin: 0;
      height: 100%;
      overflow: hidden;
      background: #000;
    }
    canvas {
      display: block;
    }
    #status {
      position: fixed;
      left: 12px;
      bottom: 8px;
      font: 12px 'Helvetica Neue', Arial, sans-serif;
      color: rgba(255,255,255,0.6);
    }
  </style>
</head>
<body>
  <canvas id="canvas"></canvas>
  <div id="status"></div>
  <script>
    const canvas = document.getElementById('canvas');
    const ctx = canvas.getContext('2d');
    const status = document.getElementById('status');
    let lastSeq = -1;

    function resize() {
      canvas.width = window.innerWidth;
      canvas.height = window.innerHeight;
      lastSeq = -1;
    }
    window.addEventListener('resize', resize);
    resize();

    function draw(frame) {
      const bg = frame.background;
      const gradient = ctx.createLinearGradient(bg.from.X, bg.from.Y, bg.to.X, bg.to.Y);
      gradient.addColorStop(bg.offsets[0], bg.colors[0]);
      gradient.addColorStop(bg.offsets[1], bg.colors[1]);
      ctx.fillStyle = gradient;
      ctx.fillRect(0, 0, frame.width, frame.height);

      for (const line of frame.lines) {
        ctx.strokeStyle = line.color;
        ctx.lineWidth = line.width;
        ctx.beginPath();
        ctx.moveTo(line.from.X, line.from.Y);
        ctx.lineTo(line.to.X, line.to.Y);
        ctx.stroke();
      }

      for (const circle of frame.circles) {
        ctx.fillStyle = circle.color;
        ctx.beginPath();
        ctx.arc(circle.center.X, circle.center.Y, circle.radius, 0, 2 * Math.PI);
        ctx.fill();
      }
    }

    async function paint() {
      try {
        const res = await fetch('/api/frame?width=' + canvas.width + '&height=' + canvas.height);
        const frame = await res.json();
        if (frame.seq !== lastSeq) {
          draw(frame);
          lastSeq = frame.seq;
          status.textContent = 'tick ' + frame.seq;
        }
      } catch (err) {
        status.textContent = 'disconnected';
      }
      window.requestAnimationFrame(paint);
    }
    window.requestAnimationFrame(paint);
  </script>
</body>
</html>
`
