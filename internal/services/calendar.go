package services

import "time"

var seasonByMonth = map[time.Month]string{
	time.January: "冬", time.February: "冬", time.March: "春",
	time.April: "春", time.May: "春", time.June: "夏",
	time.July: "夏", time.August: "夏", time.September: "秋",
	time.October: "秋", time.November: "秋", time.December: "冬",
}

type monthDay struct {
	month time.Month
	day   int
}

var holidayByDate = map[monthDay]string{
	{time.January, 1}:   "元旦",
	{time.February, 14}: "情人节",
	{time.March, 8}:     "妇女节",
	{time.May, 1}:       "劳动节",
	{time.May, 20}:      "520表白日",
	{time.June, 1}:      "儿童节",
	{time.July, 7}:      "七夕（农历）",
	{time.August, 4}:    "七夕（大约）",
	{time.October, 1}:   "国庆节",
	{time.November, 11}: "双十一/光棍节",
	{time.December, 24}: "平安夜",
	{time.December, 25}: "圣诞节",
}

// Season maps a month to its Chinese season label.
func Season(month time.Month) string {
	return seasonByMonth[month]
}

// HolidayHint returns the holiday name for an exact month/day match,
// or an empty string.
func HolidayHint(date time.Time) string {
	return holidayByDate[monthDay{date.Month(), date.Day()}]
}
