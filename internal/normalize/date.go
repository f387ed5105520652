package normalize

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// NotAvailable подставляется вместо отсутствующей или пустой даты.
const NotAvailable = "N/A"

// displayLayout единый отображаемый формат дат консоли.
const displayLayout = "Jan 02, 2006"

// Date приводит дату бэкенда к единому отображаемому виду.
//
// Принимает ISO-8601 строку, массив [год, месяц(с единицы), день, час,
// минута, секунда] или null. Отсутствующее значение дает "N/A",
// нераспознанная строка возвращается как есть, чтобы одна битая запись
// не ломала список.
func Date(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return NotAvailable
	}

	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		return dateFromString(s)
	}

	var parts []int
	if err := json.Unmarshal(trimmed, &parts); err == nil {
		return dateFromParts(parts)
	}

	return NotAvailable
}

func dateFromString(s string) string {
	if s == "" {
		return NotAvailable
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(displayLayout)
		}
	}
	return s
}

func dateFromParts(parts []int) string {
	if len(parts) < 3 {
		return NotAvailable
	}
	at := func(i int) int {
		if i < len(parts) {
			return parts[i]
		}
		return 0
	}
	t := time.Date(parts[0], time.Month(parts[1]), parts[2], at(3), at(4), at(5), 0, time.UTC)
	return t.Format(displayLayout)
}

// Enum выбирает отображаемое значение перечисления: предпочитает уже
// приведенное бэкендом convenience-поле (например statusString), иначе
// опускает регистр сырого значения.
func Enum(pre, raw string) string {
	if pre != "" {
		return pre
	}
	return strings.ToLower(raw)
}

// EnumOr работает как Enum, но возвращает fallback при полностью пустом входе.
func EnumOr(pre, raw, fallback string) string {
	if v := Enum(pre, raw); v != "" {
		return v
	}
	return fallback
}

// UpperEnum возвращает значение перечисления в формат бэкенда, верхний регистр.
// Применяется при сборке исходящих тел мутаций из значений форм.
func UpperEnum(v string) string {
	return strings.ToUpper(v)
}
