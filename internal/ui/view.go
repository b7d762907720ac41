package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/haeunlee/bobfriend/internal/catalog"
	"github.com/haeunlee/bobfriend/internal/store"
)

// View renders the current screen.
func (a App) View() string {
	var body string
	switch a.screen {
	case screenHome:
		body = a.viewHome()
	case screenPlayer:
		body = a.viewPlayer()
	case screenReceipt:
		body = a.viewReceipt()
	case screenHistory:
		body = a.viewHistory()
	case screenNotFound:
		body = a.viewNotFound()
	}

	var b strings.Builder
	b.WriteString(Header.Render("BOB-FRIEND"))
	b.WriteString("\n")
	b.WriteString(Tagline.Render("혼자 먹는 밥, 같이 보는 영상"))
	b.WriteString("\n\n")
	b.WriteString(body)
	if a.err != nil {
		b.WriteString("\n")
		b.WriteString(ErrorStyle.Render(a.err.Error()))
	}
	b.WriteString("\n")
	b.WriteString(a.statusBar())
	return b.String()
}

func (a App) statusBar() string {
	var help string
	switch a.screen {
	case screenHome:
		help = "←/→ 시간  ↑/↓ 메뉴  enter 고르기  h 기록  q 종료"
	case screenPlayer:
		help = "f 식사 끝  space 일시정지  esc 홈  q 종료"
		if a.moodAllowsSkip() && !a.play.allWatched {
			help = "f 식사 끝  n 다른 영상  space 일시정지  esc 홈  q 종료"
		}
	case screenReceipt:
		help = "a 다시 보기  y 기록  h 홈  q 종료"
	case screenHistory:
		help = "↑/↓ 이동  enter 영수증  esc 홈  q 종료"
	case screenNotFound:
		help = "enter 홈으로  q 종료"
	}
	return StatusBar.Render(help)
}

func (a App) viewHome() string {
	var b strings.Builder

	b.WriteString(SectionTitle.Render("오늘 식사 시간은?"))
	b.WriteString("\n  ")
	for i, bucket := range catalog.Buckets {
		label := bucket + "분"
		if i == a.home.bucketIdx {
			b.WriteString(PillSelected.Render(label))
		} else {
			b.WriteString(Pill.Render(label))
		}
		b.WriteString(" ")
	}
	b.WriteString("\n\n")

	b.WriteString(SectionTitle.Render("오늘의 메뉴"))
	b.WriteString("\n")
	for i, mood := range catalog.Moods {
		line := mood.Label
		if mood.Badge != "" {
			line = line + " " + Badge.Render(mood.Badge)
		}
		if i == a.home.moodCursor {
			b.WriteString("  " + CardSelected.Render("▶ "+line))
		} else {
			b.WriteString("  " + Card.Render("  "+line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(MutedText.Render("  h 를 누르면 지난 영수증을 모아볼 수 있어요"))
	b.WriteString("\n")
	return b.String()
}

func (a App) viewPlayer() string {
	var b strings.Builder
	p := a.play

	b.WriteString("  " + MoodTag.Render(p.bucket+"분"))
	b.WriteString(MoodTag.Render(catalog.MoodLabel(p.mood)))
	b.WriteString("\n\n")

	b.WriteString("  " + AccentText.Render(p.entry.Title))
	b.WriteString("\n")
	b.WriteString("  " + MutedText.Render(p.entry.Channel+" · "+p.entry.Duration))
	b.WriteString("\n\n")

	switch {
	case p.waiting:
		b.WriteString(fmt.Sprintf("  %s 영상을 준비하고 있어요...\n", p.spin.View()))
	case p.ended && p.countdown > 0:
		b.WriteString("  " + AccentText.Render("맛있게 보셨나요?"))
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("  %d초 뒤에 영수증이 나와요 (f 를 누르면 바로)\n", p.countdown))
	case p.ended:
		b.WriteString("  " + MutedText.Render("영상이 끝났어요"))
		b.WriteString("\n")
	case p.paused:
		b.WriteString(fmt.Sprintf("  ⏸  일시정지 · %s\n", fmtClock(p.pos)))
	default:
		b.WriteString(fmt.Sprintf("  ▶  재생 중 · %s\n", fmtClock(p.pos)))
	}

	if p.allWatched {
		b.WriteString("\n")
		b.WriteString("  " + MutedText.Render("더 보여드릴 영상이 없어요! 지금 영상으로 식사를 마무리해요 🙂"))
		b.WriteString("\n")
	}
	return b.String()
}

func (a App) viewReceipt() string {
	if a.receipt.loading {
		return "  " + MutedText.Render("영수증을 출력하고 있어요...") + "\n"
	}
	rec := a.receipt.rec
	if rec == nil {
		return "  " + MutedText.Render("아직 식사 기록이 없어요. 먼저 한 끼 드셔보세요!") + "\n"
	}

	const inner = 34
	rule := ReceiptRule.Render(strings.Repeat("-", inner))

	var b strings.Builder
	b.WriteString(lipgloss.PlaceHorizontal(inner, lipgloss.Center, AccentText.Render("식사 완료 영수증")))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(inner, lipgloss.Center, MutedText.Render("NO. "+orderNumber(rec))))
	b.WriteString("\n")
	b.WriteString(rule)
	b.WriteString("\n")
	b.WriteString(receiptLine("메뉴", rec.Title, inner))
	b.WriteString(receiptLine("채널", rec.Channel, inner))
	b.WriteString(receiptLine("시간", rec.SelectedTime+"분 코스", inner))
	b.WriteString(receiptLine("무드", catalog.MoodLabel(rec.SelectedMood), inner))
	b.WriteString(receiptLine("일시", rec.WatchedAt.Format("2006.01.02 15:04"), inner))
	b.WriteString(receiptLine("식사", rec.StartTime.Format("15:04")+" ~ "+rec.EndTime.Format("15:04"), inner))
	b.WriteString(rule)
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(inner, lipgloss.Center, barcode(rec.ReceiptID)))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(inner, lipgloss.Center,
		MutedText.Render(fmt.Sprintf("밥친구와 함께한 지 %d일째", a.receipt.days))))

	return "  " + strings.ReplaceAll(ReceiptCard.Render(b.String()), "\n", "\n  ") + "\n"
}

func (a App) viewHistory() string {
	var b strings.Builder
	b.WriteString(SectionTitle.Render("지난 식사 기록"))
	b.WriteString("\n")

	if a.hist.loading {
		b.WriteString("  " + MutedText.Render("기록을 불러오고 있어요..."))
		b.WriteString("\n")
		return b.String()
	}
	if len(a.hist.records) == 0 {
		b.WriteString("  " + MutedText.Render("아직 쌓인 영수증이 없어요. 오늘 한 끼 어때요?"))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString("  " + MutedText.Render(fmt.Sprintf("밥친구와 함께한 지 %d일째 · 영수증 %d장", a.hist.days, len(a.hist.records))))
	b.WriteString("\n\n")

	for i, rec := range a.hist.records {
		line := fmt.Sprintf("%s  %s", rec.WatchedAt.Format("01.02 15:04"), rec.Title)
		if i == a.hist.cursor {
			b.WriteString("  " + SelectedRow.Render("▶ "+line))
		} else {
			b.WriteString("  " + Row.Render("  "+line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (a App) viewNotFound() string {
	var b strings.Builder
	b.WriteString("  " + AccentText.Render("영상을 찾을 수 없어요"))
	b.WriteString("\n")
	b.WriteString("  " + MutedText.Render("메뉴에서 내려간 영상이에요. 홈에서 새로 골라주세요."))
	b.WriteString("\n")
	return b.String()
}

func receiptLine(label, value string, width int) string {
	left := MutedText.Render(label)
	gap := width - lipgloss.Width(left) - lipgloss.Width(value)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + value + "\n"
}

// orderNumber derives the printed receipt number from the record id.
func orderNumber(rec *store.WatchRecord) string {
	id := strings.ReplaceAll(rec.ReceiptID, "-", "")
	if len(id) > 8 {
		id = id[:8]
	}
	return strings.ToUpper(id)
}

// barcode renders a decorative strip seeded by the receipt id.
func barcode(id string) string {
	if id == "" {
		id = "bobfriend"
	}
	var b strings.Builder
	for i := 0; i < 24; i++ {
		c := id[i%len(id)]
		switch c % 3 {
		case 0:
			b.WriteString("█")
		case 1:
			b.WriteString("▌")
		default:
			b.WriteString("│")
		}
	}
	return b.String()
}

func fmtClock(d time.Duration) string {
	d = d.Round(time.Second)
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", m, s)
}
