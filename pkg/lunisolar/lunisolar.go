// Package lunisolar converts Gregorian dates to the Chinese lunisolar
// calendar. Months begin on the day of the astronomical new moon and the
// month containing the December solstice is the eleventh. All day
// boundaries are taken in China Standard Time (UTC+8).
//
// New moons come from moonphase and solar terms from the apparent solar
// longitude, both in soniakeys/meeus. Dynamical time is not corrected to UT,
// so a new moon within about a minute of midnight may land on the wrong day.
package lunisolar

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/moonphase"
	"github.com/soniakeys/meeus/v3/solar"
	"github.com/soniakeys/meeus/v3/solstice"
)

const (
	// China Standard Time offset in days
	cstOffset = 8.0 / 24

	synodicMonth = 29.530588861
	tropicalYear = 365.2422

	// JDE of the first new moon of 2000, lunation k = 0
	newMoonEpoch = 2451550.09766

	// Lunations per year as used by moonphase for its k estimate
	lunationsPerYear = 12.3685

	minYear = 1600
	maxYear = 2400
)

// ErrOutOfRange is returned for dates outside the supported years.
var ErrOutOfRange = errors.New("date outside supported range")

var (
	stems    = [...]string{"甲", "乙", "丙", "丁", "戊", "己", "庚", "辛", "壬", "癸"}
	branches = [...]string{"子", "丑", "寅", "卯", "辰", "巳", "午", "未", "申", "酉", "戌", "亥"}
	animals  = [...]string{"鼠", "牛", "虎", "兔", "龍", "蛇", "馬", "羊", "猴", "雞", "狗", "豬"}

	monthNames = [...]string{"正", "二", "三", "四", "五", "六", "七", "八", "九", "十", "十一", "十二"}
	dayTens    = [...]string{"初", "十", "廿", "三"}
	digits     = [...]string{"", "一", "二", "三", "四", "五", "六", "七", "八", "九", "十"}
)

// Date is a day in the lunisolar calendar.
type Date struct {
	Year  int // Gregorian year in which the lunar year's first month begins
	Month int // 1-12
	Day   int // 1-30
	Leap  bool

	MonthDays int // 29 or 30
}

// GanZhi returns the sexagenary name of the year, e.g. 甲辰.
func (d Date) GanZhi() string {
	n := mod(d.Year-4, 60)
	return stems[n%10] + branches[n%12]
}

// Animal returns the zodiac animal of the year, e.g. 龍.
func (d Date) Animal() string {
	return animals[mod(d.Year-4, 12)]
}

// MonthName returns the month in words, e.g. 閏二月.
func (d Date) MonthName() string {
	name := monthNames[d.Month-1] + "月"
	if d.Leap {
		return "閏" + name
	}
	return name
}

// DayName returns the day in words, e.g. 初一, 十五, 廿三.
func (d Date) DayName() string {
	switch d.Day {
	case 10:
		return "初十"
	case 20:
		return "二十"
	case 30:
		return "三十"
	}
	return dayTens[d.Day/10] + digits[d.Day%10]
}

// String formats the date as 甲辰年四月十六.
func (d Date) String() string {
	return d.GanZhi() + "年" + d.MonthName() + d.DayName()
}

// Numeric formats the date as 2024年4月16日, with 閏 before a leap month.
func (d Date) Numeric() string {
	leap := ""
	if d.Leap {
		leap = "閏"
	}
	return fmt.Sprintf("%d年%s%d月%d日", d.Year, leap, d.Month, d.Day)
}

// FromDate converts the civil date y-m-d to the lunisolar calendar.
func FromDate(y int, m time.Month, d int) (Date, error) {
	if y < minYear || y > maxYear {
		return Date{}, fmt.Errorf("%w: year %d", ErrOutOfRange, y)
	}
	day := int(math.Floor(julian.CalendarGregorianToJD(y, int(m), float64(d)) + .5))

	// The year (winter solstice to winter solstice) containing day
	k11 := month11(y)
	if dayOf(newMoon(k11)) > day {
		k11 = month11(y - 1)
	}
	sui := newSui(k11)

	for i := 0; i < len(sui.months); i++ {
		start := dayOf(newMoon(k11 + i))
		end := dayOf(newMoon(k11 + i + 1))
		if day >= start && day < end {
			mon := sui.months[i]
			return Date{
				Year:      mon.year,
				Month:     mon.number,
				Day:       day - start + 1,
				Leap:      mon.leap,
				MonthDays: end - start,
			}, nil
		}
	}
	// newSui covers every day up to the next eleventh month
	return Date{}, fmt.Errorf("%w: no month contains %04d-%02d-%02d", ErrOutOfRange, y, m, d)
}

// FromTime converts the calendar day of t, in t's location, to the
// lunisolar calendar.
func FromTime(t time.Time) (Date, error) {
	y, m, d := t.Date()
	return FromDate(y, m, d)
}

type month struct {
	year   int
	number int
	leap   bool
}

type sui struct {
	months []month
}

// newSui numbers the lunar months from the eleventh month starting at
// lunation k11 up to, not including, the next eleventh month.
func newSui(k11 int) sui {
	startYear := julian.JDToTime(newMoon(k11)).Year()
	next := month11(startYear + 1)
	n := next - k11

	// In a 13-month year the first month with no principal term is leap
	leapAt := -1
	if n == 13 {
		terms := principalTermDays(startYear)
		for i := 0; i < n; i++ {
			if !containsAny(terms, dayOf(newMoon(k11+i)), dayOf(newMoon(k11+i+1))) {
				leapAt = i
				break
			}
		}
	}

	months := make([]month, 0, n)
	number := 11
	year := startYear
	for i := 0; i < n; i++ {
		if i == leapAt {
			months = append(months, month{year: year, number: number, leap: true})
			continue
		}
		if i > 0 {
			number++
			if number > 12 {
				number = 1
				year++
			}
		}
		months = append(months, month{year: year, number: number})
	}
	return sui{months: months}
}

// month11 returns the lunation in which the December solstice of year y
// falls, counted in CST days.
func month11(y int) int {
	ws := dayOf(solstice.December(y))
	return lunationOnOrBefore(ws)
}

// lunationOnOrBefore returns the lunation whose new moon day is the last one
// not after day.
func lunationOnOrBefore(day int) int {
	k := int(math.Floor((float64(day) - newMoonEpoch) / synodicMonth))
	for dayOf(newMoon(k)) > day {
		k--
	}
	for dayOf(newMoon(k+1)) <= day {
		k++
	}
	return k
}

// newMoon returns the JDE of lunation k, k = 0 being January 2000.
func newMoon(k int) float64 {
	return moonphase.New(2000 + (float64(k)+.1)/lunationsPerYear)
}

// principalTermDays returns the CST days of the thirteen principal terms
// from the December solstice of y through that of y+1.
func principalTermDays(y int) []int {
	ws := solstice.December(y)
	days := make([]int, 0, 13)
	for i := 0; i <= 12; i++ {
		target := math.Mod(270+30*float64(i), 360)
		days = append(days, dayOf(solarCrossing(ws+float64(i)*tropicalYear/12, target)))
	}
	return days
}

// solarCrossing refines guess to the JDE at which the Sun's apparent
// longitude equals target degrees.
func solarCrossing(guess, target float64) float64 {
	jde := guess
	for n := 0; n < 20; n++ {
		lon := solar.ApparentLongitude(base.J2000Century(jde)).Deg()
		diff := math.Mod(target-lon+540, 360) - 180
		if math.Abs(diff) < 1e-7 {
			break
		}
		jde += diff * tropicalYear / 360
	}
	return jde
}

func containsAny(days []int, start, end int) bool {
	for _, d := range days {
		if d >= start && d < end {
			return true
		}
	}
	return false
}

// dayOf returns the Julian day number of the CST calendar day containing jd.
func dayOf(jd float64) int {
	return int(math.Floor(jd + .5 + cstOffset))
}

func mod(a, n int) int {
	return ((a % n) + n) % n
}
