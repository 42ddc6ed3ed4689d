// Package pdf genera la hoja de trabajo imprimible de una solicitud de reparación.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Servicio técnico        │  N° Solicitud + Fecha    │
//	│  CLIENTE: FIO + teléfono         │  ESPECIALISTA            │
//	│  EQUIPO: tipo / modelo / estado                             │
//	│  PROBLEMA + REPUESTOS                                       │
//	│  COMENTARIOS                                                │
//	│  FOOTER: QR de la encuesta + firmas                         │
//	└─────────────────────────────────────────────────────────────┘
//
// Los textos del dominio están en cirílico: sin PDF_FONT_PATH (TTF con soporte UTF-8)
// la fuente helvetica por defecto no los representa correctamente.
package pdf

import (
	"context"
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	mentity "github.com/johnfercher/maroto/v2/pkg/core/entity"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/johnfercher/maroto/v2/pkg/repository"

	"github.com/jhoicas/climate-service/internal/application/ports"
	"github.com/jhoicas/climate-service/internal/domain/entity"
)

var _ ports.WorkOrderPDFGenerator = (*MarotoWorkOrderGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 92, Blue: 151}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

const (
	defaultFamily = "helvetica"
	customFamily  = "workorder"
	dateLayout    = "02.01.2006"
)

// MarotoWorkOrderGenerator implementa ports.WorkOrderPDFGenerator usando Maroto v2.
type MarotoWorkOrderGenerator struct {
	family      string
	fonts       []*mentity.CustomFont
	feedbackURL string
}

// NewMarotoWorkOrderGenerator construye el generador. fontPath vacío = helvetica;
// si no, el TTF se registra como fuente normal y negrita.
func NewMarotoWorkOrderGenerator(fontPath, feedbackURL string) (*MarotoWorkOrderGenerator, error) {
	g := &MarotoWorkOrderGenerator{family: defaultFamily, feedbackURL: feedbackURL}
	if fontPath == "" {
		return g, nil
	}
	fonts, err := repository.New().
		AddUTF8Font(customFamily, fontstyle.Normal, fontPath).
		AddUTF8Font(customFamily, fontstyle.Bold, fontPath).
		Load()
	if err != nil {
		return nil, fmt.Errorf("pdf: cargar fuente %s: %w", fontPath, err)
	}
	g.family = customFamily
	g.fonts = fonts
	return g, nil
}

// GenerateWorkOrder genera el PDF y devuelve sus bytes.
func (g *MarotoWorkOrderGenerator) GenerateWorkOrder(_ context.Context, wo ports.WorkOrder) ([]byte, error) {
	if wo.Request == nil || wo.Client == nil {
		return nil, fmt.Errorf("pdf: solicitud o cliente ausentes")
	}
	b := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: g.family, Size: 9}).
		WithTitle(fmt.Sprintf("Заявка №%d", wo.Request.ID), true)
	if len(g.fonts) > 0 {
		b = b.WithCustomFonts(g.fonts)
	}
	m := maroto.New(b.Build())

	m.AddRows(headerRow(wo.Request))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(partiesRow(wo.Client, wo.Master))
	m.AddRows(equipmentRow(wo.Request))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(problemRows(wo.Request)...)
	m.AddRows(commentRows(wo.Comments)...)
	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(g.feedbackURL))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(r *entity.Request) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New("Сервисный центр климатического оборудования", props.Text{
				Style: fontstyle.Bold, Size: 11, Color: colorPrimary, Top: 1,
			}),
			text.New("Лист заявки на ремонт", props.Text{Size: 9, Top: 8, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("Заявка №"+strconv.FormatInt(r.ID, 10), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 1,
			}),
			text.New("Дата начала: "+r.StartDate.Format(dateLayout), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

func partiesRow(client, master *entity.User) core.Row {
	masterName, masterPhone := "не назначен", "—"
	if master != nil {
		masterName, masterPhone = master.FIO, nonEmpty(master.Phone, "—")
	}
	return row.New(16).Add(
		col.New(6).Add(
			text.New("ЗАКАЗЧИК", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(client.FIO, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New("Тел.: "+nonEmpty(client.Phone, "—"), props.Text{Size: 8, Top: 11, Color: colorGray}),
		),
		col.New(6).Add(
			text.New("СПЕЦИАЛИСТ", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(masterName, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New("Тел.: "+masterPhone, props.Text{Size: 8, Top: 11, Color: colorGray}),
		),
	)
}

func equipmentRow(r *entity.Request) core.Row {
	completion := "—"
	if r.CompletionDate != nil {
		completion = r.CompletionDate.Format(dateLayout)
	}
	field := func(label, value string, size int) core.Col {
		return col.New(size).Add(
			text.New(label, props.Text{Style: fontstyle.Bold, Size: 7, Color: colorGray, Top: 1}),
			text.New(value, props.Text{Size: 9, Top: 5}),
		)
	}
	return row.New(12).Add(
		field("Тип оборудования", r.TechType, 3),
		field("Модель", r.TechModel, 3),
		field("Статус", string(r.Status), 4),
		field("Завершение", completion, 2),
	)
}

func problemRows(r *entity.Request) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(text.New("ОПИСАНИЕ ПРОБЛЕМЫ", props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
		}))),
		text.NewRow(10, r.ProblemDescription, props.Text{Size: 9, Top: 1}),
	}
	if r.RepairParts != nil && *r.RepairParts != "" {
		rows = append(rows,
			row.New(6).Add(col.New(12).Add(text.New("КОМПЛЕКТУЮЩИЕ", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}))),
			text.NewRow(8, *r.RepairParts, props.Text{Size: 9, Top: 1}),
		)
	}
	return rows
}

func commentRows(comments []*entity.Comment) []core.Row {
	if len(comments) == 0 {
		return nil
	}
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(text.New("КОММЕНТАРИИ", props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
		}))),
	}
	for _, c := range comments {
		rows = append(rows, row.New(7).Add(
			col.New(2).Add(text.New("#"+strconv.FormatInt(c.MasterID, 10), props.Text{
				Size: 8, Color: colorGray, Top: 1,
			})),
			col.New(10).Add(text.New(c.Message, props.Text{Size: 8, Top: 1})),
		))
	}
	return rows
}

func footerRow(feedbackURL string) core.Row {
	signatures := col.New(8).Add(
		text.New("Подпись специалиста: ____________________", props.Text{Size: 9, Top: 6}),
		text.New("Подпись заказчика: ______________________", props.Text{Size: 9, Top: 18}),
	)
	if feedbackURL == "" {
		return row.New(30).Add(signatures, col.New(4))
	}
	return row.New(40).Add(
		signatures,
		col.New(4).Add(
			code.NewQr(feedbackURL, props.Rect{Percent: 80, Center: true}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
