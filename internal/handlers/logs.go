package handlers

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	helpers "dhrubfoundation/internal/utils/helpres"
)

// LogsHandler — просмотр серверных логов из админки.
// Понимает текущий app.log (за сегодня) и ротированные lumberjack-файлы
// app-<timestamp>.log[.gz], отфильтрованные по дате в имени.
type LogsHandler struct {
	LogDir    string
	Retention int // дней
}

func NewLogsHandler() *LogsHandler {
	return &LogsHandler{LogDir: "logs", Retention: 14}
}

var reLogDay = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ListDays godoc
// @Summary Дни, за которые есть логи
// @Tags admin-logs
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} map[string][]string
// @Router /api/admin/logs/days [get]
func (h *LogsHandler) ListDays(w http.ResponseWriter, r *http.Request) {
	today := time.Now().Local()
	days := make([]string, 0, h.Retention)
	for i := 0; i < h.Retention; i++ {
		d := today.AddDate(0, 0, -i).Format("2006-01-02")
		if files, err := h.filesForDay(d); err == nil && len(files) > 0 {
			days = append(days, d)
		}
	}
	sort.Strings(days)
	helpers.JSON(w, http.StatusOK, map[string][]string{"days": days})
}

// GetLogs godoc
// @Summary Логи за день
// @Tags admin-logs
// @Security ApiKeyAuth
// @Produce json
// @Param day query string true "Дата (YYYY-MM-DD)"
// @Param level query string false "CSV уровней: debug,info,warn,error"
// @Param q query string false "Поиск по подстроке"
// @Param limit query int false "Лимит (по умолчанию 200, макс. 1000)"
// @Param cursor query int false "Номер строки для пагинации"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {string} string "Нет логов за день"
// @Router /api/admin/logs [get]
func (h *LogsHandler) GetLogs(w http.ResponseWriter, r *http.Request) {
	day := r.URL.Query().Get("day")
	if !reLogDay.MatchString(day) {
		helpers.Error(w, http.StatusBadRequest, "Невалидная дата")
		return
	}

	levelSet := map[string]bool{}
	for _, p := range strings.Split(r.URL.Query().Get("level"), ",") {
		if p = strings.TrimSpace(p); p != "" {
			levelSet[strings.ToUpper(p)] = true
		}
	}

	var qre *regexp.Regexp
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		qre = regexp.MustCompile("(?i)" + regexp.QuoteMeta(q))
	}

	limit := clampQueryInt(r.URL.Query().Get("limit"), 200, 50, 1000)
	cursor := clampQueryInt(r.URL.Query().Get("cursor"), 0, 0, 10_000_000)

	lineNo := 0
	matched := 0
	var items []json.RawMessage

	err := h.forEachLine(day, func(raw []byte) bool {
		lineNo++
		if lineNo <= cursor {
			return true
		}
		if qre != nil && !qre.Match(raw) {
			return true
		}
		var obj map[string]any
		if err := json.Unmarshal(raw, &obj); err != nil {
			// консольный (не-JSON) формат пропускаем
			return true
		}
		if len(levelSet) > 0 {
			lvl, _ := obj["level"].(string)
			if !levelSet[strings.ToUpper(lvl)] {
				return true
			}
		}
		items = append(items, append([]byte{}, raw...))
		matched++
		return matched < limit
	})
	if err != nil {
		helpers.Error(w, http.StatusNotFound, "Нет логов за день")
		return
	}

	if items == nil {
		items = make([]json.RawMessage, 0)
	}
	helpers.JSON(w, http.StatusOK, map[string]any{
		"day":        day,
		"items":      items,
		"nextCursor": cursor + matched,
	})
}

// DownloadRaw godoc
// @Summary Скачать лог-файл за день
// @Tags admin-logs
// @Security ApiKeyAuth
// @Produce text/plain
// @Param day query string true "Дата (YYYY-MM-DD)"
// @Success 200 {file} file
// @Failure 404 {string} string "Файл не найден"
// @Router /api/admin/logs/download [get]
func (h *LogsHandler) DownloadRaw(w http.ResponseWriter, r *http.Request) {
	day := r.URL.Query().Get("day")
	if !reLogDay.MatchString(day) {
		helpers.Error(w, http.StatusBadRequest, "Невалидная дата")
		return
	}
	files, err := h.filesForDay(day)
	if err != nil || len(files) == 0 {
		helpers.Error(w, http.StatusNotFound, "Файл не найден")
		return
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(files[0])))
	http.ServeFile(w, r, files[0])
}

func (h *LogsHandler) filesForDay(day string) ([]string, error) {
	entries, err := os.ReadDir(h.LogDir)
	if err != nil {
		return nil, err
	}
	today := time.Now().Local().Format("2006-01-02")

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if name == "app.log" && day == today {
			files = append(files, filepath.Join(h.LogDir, name))
			continue
		}
		if strings.HasPrefix(name, "app-") && strings.Contains(name, day) &&
			(strings.HasSuffix(name, ".log") || strings.HasSuffix(name, ".gz")) {
			files = append(files, filepath.Join(h.LogDir, name))
		}
	}
	sort.Strings(files)
	return files, nil
}

func (h *LogsHandler) forEachLine(day string, handle func([]byte) bool) error {
	files, err := h.filesForDay(day)
	if err != nil || len(files) == 0 {
		return os.ErrNotExist
	}

	for _, path := range files {
		f, err := os.Open(path)
		if err != nil {
			continue
		}
		var reader io.Reader = f
		var gr *gzip.Reader
		if strings.HasSuffix(path, ".gz") {
			if gzr, err := gzip.NewReader(f); err == nil {
				gr = gzr
				reader = gr
			} else {
				f.Close()
				continue
			}
		}

		sc := bufio.NewScanner(reader)
		sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for sc.Scan() {
			if !handle(sc.Bytes()) {
				break
			}
		}

		if gr != nil {
			_ = gr.Close()
		}
		_ = f.Close()
	}
	return nil
}

func clampQueryInt(s string, def, min, max int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}
