package web

import "net/http"

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(dashboardHTML))
}

const dashboardHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Screentrack Dashboard</title>
    <script src="https://unpkg.com/htmx.org@1.9.10"></script>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }

        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            background: #f5f5f5;
            padding: 20px;
            color: #333;
        }

        h1 { color: #1a1a1a; font-size: 2rem; margin-bottom: 30px; }

        .dashboard { display: flex; gap: 20px; flex-wrap: wrap; }

        .report-box {
            flex: 1;
            min-width: 300px;
            background: white;
            border-radius: 8px;
            box-shadow: 0 2px 4px rgba(0,0,0,0.1);
            padding: 24px;
        }

        .report-box h2 {
            font-size: 1.5rem;
            margin-bottom: 20px;
            color: #2c3e50;
            border-bottom: 2px solid #3498db;
            padding-bottom: 10px;
        }

        .app-item {
            display: flex;
            justify-content: space-between;
            align-items: center;
            padding: 12px 8px;
            border-bottom: 1px solid #eee;
        }

        .app-item:last-child { border-bottom: none; }

        .app-name { font-weight: 500; }
        .app-time { color: #7f8c8d; font-size: 0.9rem; }

        .app-percentage {
            color: #3498db;
            font-weight: 600;
            margin-left: 10px;
            display: inline-block;
            min-width: 4em;
            text-align: right;
        }

        .totals { font-size: 1.2rem; }
        .totals .active { color: #27ae60; font-weight: 600; margin-right: 15px; }
        .totals .inactive { color: #7f8c8d; }

        .loading { color: #7f8c8d; font-style: italic; }

        .total {
            margin-top: 20px;
            padding-top: 15px;
            border-top: 2px solid #ecf0f1;
            font-weight: 600;
            font-size: 1.1rem;
            color: #2c3e50;
        }

        @media (max-width: 1024px) {
            .dashboard { flex-direction: column; }
            .report-box { min-width: 100%; }
        }
    </style>
</head>
<body>
    <h1>Screentrack Dashboard</h1>
    <div class="dashboard">
        <div class="report-box">
            <h2>Today</h2>
            <div hx-get="/api/daily" hx-trigger="load, every 30s" hx-swap="innerHTML">
                <div class="loading">Loading...</div>
            </div>
        </div>

        <div class="report-box">
            <h2>Applications</h2>
            <div hx-get="/api/apps" hx-trigger="load, every 30s" hx-swap="innerHTML">
                <div class="loading">Loading...</div>
            </div>
        </div>
    </div>
</body>
</html>`
