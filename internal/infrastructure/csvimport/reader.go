// Package csvimport lee las exportaciones CSV (usuarios, solicitudes, comentarios) que se cargan
// con ids explícitos. Las columnas se localizan por el nombre de la cabecera, igual que en la base.
package csvimport

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/climate-service/internal/domain/entity"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Encoding codificación del archivo de entrada.
type Encoding string

const (
	UTF8        Encoding = "utf-8"
	Windows1251 Encoding = "cp1251" // exportaciones de Excel en ruso
)

// Options formato del archivo.
type Options struct {
	Encoding  Encoding
	Separator rune
}

// PasswordHasher convierte contraseñas en texto plano; los valores que ya son bcrypt se conservan.
type PasswordHasher func(plain string) (string, error)

// dateLayouts formatos de fecha aceptados: ISO y el habitual dd.mm.aaaa.
var dateLayouts = []string{entity.DateLayout, "02.01.2006", "2006-01-02 15:04:05"}

// table filas del CSV con acceso por nombre de columna.
type table struct {
	name   string
	header map[string]int
	rows   [][]string
}

func newReader(r io.Reader, opt Options) (*csv.Reader, error) {
	switch opt.Encoding {
	case "", UTF8:
	case Windows1251:
		r = transform.NewReader(r, charmap.Windows1251.NewDecoder())
	default:
		return nil, fmt.Errorf("csvimport: codificación no soportada %q", opt.Encoding)
	}
	cr := csv.NewReader(r)
	if opt.Separator != 0 {
		cr.Comma = opt.Separator
	}
	cr.TrimLeadingSpace = true
	return cr, nil
}

func readTable(name string, r io.Reader, opt Options, required ...string) (*table, error) {
	cr, err := newReader(r, opt)
	if err != nil {
		return nil, err
	}
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csvimport: %s: %w", name, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csvimport: %s: archivo vacío", name)
	}
	t := &table{name: name, header: make(map[string]int), rows: records[1:]}
	for i, col := range records[0] {
		// BOM de archivos guardados por Excel
		col = strings.TrimPrefix(strings.TrimSpace(col), "\ufeff")
		t.header[strings.ToLower(col)] = i
	}
	for _, col := range required {
		if _, ok := t.header[col]; !ok {
			return nil, fmt.Errorf("csvimport: %s: falta la columna %q", name, col)
		}
	}
	return t, nil
}

func (t *table) get(row []string, col string) string {
	i, ok := t.header[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (t *table) errorf(line int, format string, args ...any) error {
	// +2: cabecera y numeración desde 1
	return fmt.Errorf("csvimport: %s línea %d: %s", t.name, line+2, fmt.Sprintf(format, args...))
}

func (t *table) id(row []string, line int, col string) (int64, error) {
	v := t.get(row, col)
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return 0, t.errorf(line, "%s inválido %q", col, v)
	}
	return n, nil
}

func (t *table) optionalID(row []string, line int, col string) (*int64, error) {
	if t.get(row, col) == "" {
		return nil, nil
	}
	n, err := t.id(row, line, col)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (t *table) date(row []string, line int, col string) (*time.Time, error) {
	v := t.get(row, col)
	if v == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, v); err == nil {
			d = entity.TruncateDate(d)
			return &d, nil
		}
	}
	return nil, t.errorf(line, "%s: fecha inválida %q", col, v)
}

// ReadUsers columnas: user_id, fio, phone, login, password, user_type.
func ReadUsers(r io.Reader, opt Options, hash PasswordHasher) ([]*entity.User, error) {
	t, err := readTable("users", r, opt, "user_id", "fio", "login", "password", "user_type")
	if err != nil {
		return nil, err
	}
	out := make([]*entity.User, 0, len(t.rows))
	for line, row := range t.rows {
		id, err := t.id(row, line, "user_id")
		if err != nil {
			return nil, err
		}
		role, err := entity.ParseRole(t.get(row, "user_type"))
		if err != nil {
			return nil, t.errorf(line, "%v", err)
		}
		login := t.get(row, "login")
		if login == "" {
			return nil, t.errorf(line, "login vacío")
		}
		password := t.get(row, "password")
		if !isBcrypt(password) {
			if password, err = hash(password); err != nil {
				return nil, t.errorf(line, "%v", err)
			}
		}
		out = append(out, &entity.User{
			ID:           id,
			FIO:          t.get(row, "fio"),
			Phone:        t.get(row, "phone"),
			Login:        login,
			PasswordHash: password,
			Role:         role,
		})
	}
	return out, nil
}

// ReadRequests columnas: request_id, start_date, climate_tech_type, climate_tech_model,
// problem_description, request_status, completion_date, repair_parts, master_id, client_id.
func ReadRequests(r io.Reader, opt Options) ([]*entity.Request, error) {
	t, err := readTable("requests", r, opt, "request_id", "start_date", "climate_tech_type",
		"climate_tech_model", "problem_description", "client_id")
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Request, 0, len(t.rows))
	for line, row := range t.rows {
		req := &entity.Request{
			TechType:           t.get(row, "climate_tech_type"),
			TechModel:          t.get(row, "climate_tech_model"),
			ProblemDescription: t.get(row, "problem_description"),
			Status:             entity.RequestStatus(t.get(row, "request_status")),
		}
		if req.Status == "" {
			req.Status = entity.StatusNew
		}
		if req.ID, err = t.id(row, line, "request_id"); err != nil {
			return nil, err
		}
		if req.ClientID, err = t.id(row, line, "client_id"); err != nil {
			return nil, err
		}
		if req.MasterID, err = t.optionalID(row, line, "master_id"); err != nil {
			return nil, err
		}
		start, err := t.date(row, line, "start_date")
		if err != nil {
			return nil, err
		}
		if start == nil {
			return nil, t.errorf(line, "start_date vacío")
		}
		req.StartDate = *start
		if req.CompletionDate, err = t.date(row, line, "completion_date"); err != nil {
			return nil, err
		}
		if parts := t.get(row, "repair_parts"); parts != "" {
			req.RepairParts = &parts
		}
		out = append(out, req)
	}
	return out, nil
}

// ReadComments columnas: comment_id, message, master_id, request_id.
func ReadComments(r io.Reader, opt Options) ([]*entity.Comment, error) {
	t, err := readTable("comments", r, opt, "comment_id", "message", "master_id", "request_id")
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Comment, 0, len(t.rows))
	for line, row := range t.rows {
		c := &entity.Comment{Message: t.get(row, "message")}
		if c.ID, err = t.id(row, line, "comment_id"); err != nil {
			return nil, err
		}
		if c.MasterID, err = t.id(row, line, "master_id"); err != nil {
			return nil, err
		}
		if c.RequestID, err = t.id(row, line, "request_id"); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func isBcrypt(s string) bool {
	return len(s) == 60 && (strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$"))
}
