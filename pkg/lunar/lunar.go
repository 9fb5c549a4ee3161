// Package lunar provides moon phase calculations using ecliptic longitudes
// of the Sun and Moon. Accuracy is typically within ~0.5-1% illumination
// and ~1-2 hours of phase angle. Crescent angle calculations use full
// equatorial coordinates with parallactic angle correction for the observer.
//
// These series are the low-precision backend. The report normally takes its
// angles from the meeus ephemeris and only uses this package for the phase
// shape classifier and the phase disc geometry.
package lunar

import (
	"math"
	"time"
)

// SynodicMonth is the average length of the lunar cycle in days
const SynodicMonth = 29.530588853

// CrescentAngle contains the full set of computed orientation values
type CrescentAngle struct {
	BrightLimbAngle  float64 // χ: position angle of bright limb (degrees, from celestial N toward E)
	TerminatorAngle  float64 // θ: terminator orientation in celestial coords (degrees)
	ParallacticAngle float64 // q: parallactic angle of the Moon (degrees)
	LocalTerminator  float64 // θ_local: terminator angle relative to observer's local vertical (degrees)
	Rotation         float64 // CSS rotation to apply to the icon (degrees, clockwise positive)
	PhaseAngle       float64 // i: Sun-Moon-Earth angle (degrees)
	Illumination     float64 // k: illuminated fraction [0,1], computed from phase angle
}

// MoonPhase contains calculated moon phase information
type MoonPhase struct {
	Phase        float64 // Phase fraction [0,1): 0=new, 0.5=full
	Elongation   float64 // Sun→Moon angle in degrees [0,360)
	Illumination float64 // Illuminated fraction [0,1]: 0=new, 1=full
	AgeDays      float64 // Days since new moon [0,SynodicMonth)
	IsWaxing     bool    // True when moon is waxing (getting fuller)
	Shape        Shape   // 8-way phase bucket of Elongation
	PhaseName    string  // Human-readable phase name
}

// Position is the Moon's place in the observer's sky.
type Position struct {
	AltitudeDeg float64 // above the horizon, geocentric, no refraction
	AzimuthDeg  float64 // from north through east, [0,360)
}

// Calculate computes the moon phase for a given UTC timestamp
func Calculate(t time.Time) MoonPhase {
	lambdaSun, lambdaMoon := EclipticLongitudes(t)

	elongation := NormalizeAngle(lambdaMoon - lambdaSun)
	phase := elongation / 360.0
	illumination := (1 - math.Cos(degToRad(elongation))) / 2
	ageDays := phase * SynodicMonth
	shape := ShapeFromElongation(elongation)

	return MoonPhase{
		Phase:        phase,
		Elongation:   elongation,
		Illumination: illumination,
		AgeDays:      ageDays,
		IsWaxing:     elongation < 180,
		Shape:        shape,
		PhaseName:    shape.English(),
	}
}

// EclipticLongitudes returns the apparent ecliptic longitudes of the Sun and
// the Moon in degrees, each in [0,360).
func EclipticLongitudes(t time.Time) (sun, moon float64) {
	T := julianCenturies(jdFromTime(t))
	return sunEclipticLongitude(T), moonEclipticLongitude(T)
}

// CalculatePosition computes the Moon's altitude and azimuth for an observer
// at latDeg, lonDeg (east positive).
func CalculatePosition(t time.Time, latDeg, lonDeg float64) Position {
	jd := jdFromTime(t)
	T := julianCenturies(jd)

	ra, dec := eclipticToEquatorial(moonEclipticLongitude(T), moonEclipticLatitude(T), obliquity(T))
	H := localSiderealTime(jd, lonDeg) - ra
	phi := degToRad(latDeg)

	sinAlt := math.Sin(phi)*math.Sin(dec) + math.Cos(phi)*math.Cos(dec)*math.Cos(H)
	alt := math.Asin(math.Max(-1, math.Min(1, sinAlt)))

	// Meeus eq. 13.5 measures from the south; shift to north-based
	az := math.Atan2(math.Sin(H), math.Cos(H)*math.Sin(phi)-math.Tan(dec)*math.Cos(phi))

	return Position{
		AltitudeDeg: radToDeg(alt),
		AzimuthDeg:  NormalizeAngle(radToDeg(az) + 180),
	}
}

// jdFromTime converts a UTC time to Julian Day
func jdFromTime(t time.Time) float64 {
	return 2440587.5 + float64(t.Unix())/86400.0
}

// julianCenturies returns Julian centuries since J2000.0
func julianCenturies(jd float64) float64 {
	return (jd - 2451545.0) / 36525.0
}

// NormalizeAngle wraps an angle to the range [0, 360)
func NormalizeAngle(angle float64) float64 {
	angle = math.Mod(angle, 360)
	if angle < 0 {
		angle += 360
	}
	// -1e-15 + 360 rounds to 360
	if angle >= 360 {
		angle = 0
	}
	return angle
}

// degToRad converts degrees to radians
func degToRad(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// sunEclipticLongitude computes the Sun's ecliptic longitude in degrees
func sunEclipticLongitude(T float64) float64 {
	// Mean longitude
	L0 := 280.46646 + 36000.76983*T + 0.0003032*T*T

	// Mean anomaly
	M := 357.52911 + 35999.05029*T - 0.0001537*T*T
	Mrad := degToRad(NormalizeAngle(M))

	// Equation of center
	C := (1.914602-0.004817*T-0.000014*T*T)*math.Sin(Mrad) +
		(0.019993-0.000101*T)*math.Sin(2*Mrad) +
		0.000289*math.Sin(3*Mrad)

	return NormalizeAngle(L0 + C)
}

// moonArguments returns the Moon's mean elongation D and mean anomaly M'
// in radians.
func moonArguments(T float64) (D, Mp float64) {
	d := 297.8501921 +
		445267.1114034*T -
		0.0018819*T*T +
		T*T*T/545868 -
		T*T*T*T/113065000

	mp := 134.9633964 +
		477198.8675055*T +
		0.0087414*T*T +
		T*T*T/69699 -
		T*T*T*T/14712000

	return degToRad(NormalizeAngle(d)), degToRad(NormalizeAngle(mp))
}

// moonEclipticLongitude computes the Moon's ecliptic longitude in degrees
func moonEclipticLongitude(T float64) float64 {
	// Mean longitude
	L := 218.3164477 +
		481267.88123421*T -
		0.0015786*T*T +
		T*T*T/538841 -
		T*T*T*T/65194000

	Drad, Mprad := moonArguments(T)

	// Longitude correction (dominant terms)
	lambdaMoon := L +
		6.289*math.Sin(Mprad) +
		1.274*math.Sin(2*Drad-Mprad) +
		0.658*math.Sin(2*Drad) +
		0.214*math.Sin(2*Mprad) +
		0.110*math.Sin(Drad)

	return NormalizeAngle(lambdaMoon)
}

// moonEclipticLatitude computes the Moon's ecliptic latitude in degrees.
// Uses the dominant terms from Meeus Ch. 47.
func moonEclipticLatitude(T float64) float64 {
	// Argument of latitude F
	F := 93.2720950 +
		483202.0175233*T -
		0.0036539*T*T -
		T*T*T/3526000 +
		T*T*T*T/863310000

	Frad := degToRad(NormalizeAngle(F))
	Drad, Mprad := moonArguments(T)

	// Latitude (dominant terms from Meeus Table 47.B)
	return 5.128*math.Sin(Frad) +
		0.2806*math.Sin(Mprad+Frad) +
		0.2777*math.Sin(Mprad-Frad) +
		0.1732*math.Sin(2*Drad-Frad)
}

// obliquity computes the mean obliquity of the ecliptic in degrees (IAU formula)
func obliquity(T float64) float64 {
	return 23.439291111 - 0.013004167*T - 0.00000164*T*T + 0.000000504*T*T*T
}

// eclipticToEquatorial converts ecliptic coordinates (lambda, beta in degrees)
// to equatorial coordinates (ra, dec in radians) given obliquity epsilon in degrees.
func eclipticToEquatorial(lambdaDeg, betaDeg, epsilonDeg float64) (ra, dec float64) {
	lam := degToRad(lambdaDeg)
	bet := degToRad(betaDeg)
	eps := degToRad(epsilonDeg)

	sinLam := math.Sin(lam)
	sinEps := math.Sin(eps)
	cosEps := math.Cos(eps)

	dec = math.Asin(math.Sin(bet)*cosEps + math.Cos(bet)*sinEps*sinLam)

	ra = math.Atan2(sinLam*cosEps-math.Tan(bet)*sinEps, math.Cos(lam))
	if ra < 0 {
		ra += 2 * math.Pi
	}

	return ra, dec
}

// greenwichMeanSiderealTime computes GMST in degrees for a given Julian Day.
// Uses the IAU 1982 model (Meeus eq. 12.4).
func greenwichMeanSiderealTime(jd float64) float64 {
	// Julian day at preceding midnight
	jd0 := math.Floor(jd-0.5) + 0.5
	T := (jd0 - 2451545.0) / 36525.0

	// GMST at midnight in hours
	gmst := 6.697374558 + 2400.0513369*T + 0.0000258622*T*T - 1.7222e-9*T*T*T

	// Hours elapsed since midnight UT
	gmst += 1.00273790935 * (jd - jd0) * 24.0

	gmst = math.Mod(gmst, 24)
	if gmst < 0 {
		gmst += 24
	}
	return gmst * 15.0
}

// localSiderealTime computes the local sidereal time in radians
func localSiderealTime(jd, lonDeg float64) float64 {
	return degToRad(NormalizeAngle(greenwichMeanSiderealTime(jd) + lonDeg))
}

func radToDeg(rad float64) float64 {
	return rad * 180.0 / math.Pi
}

// normalizeRadians wraps an angle in radians to the range [0, 2π)
func normalizeRadians(angle float64) float64 {
	twoPi := 2 * math.Pi
	angle = math.Mod(angle, twoPi)
	if angle < 0 {
		angle += twoPi
	}
	return angle
}

// CalculateCrescentAngle computes the full crescent orientation for an observer.
// Returns a CrescentAngle with the rotation angle to apply to a moon phase icon
// so that the terminator matches the real observed orientation in the sky.
//
// latDeg and lonDeg are the observer's geographic latitude and longitude in degrees
// (east positive). If both are zero, the parallactic angle correction is skipped
// and the geocentric terminator angle is returned.
func CalculateCrescentAngle(t time.Time, latDeg, lonDeg float64) CrescentAngle {
	jd := jdFromTime(t)
	T := julianCenturies(jd)
	eps := obliquity(T)

	// Sun ecliptic coordinates (β_sun ≈ 0)
	raSun, decSun := eclipticToEquatorial(sunEclipticLongitude(T), 0, eps)
	raMoon, decMoon := eclipticToEquatorial(moonEclipticLongitude(T), moonEclipticLatitude(T), eps)

	// Elongation E via spherical law of cosines
	cosE := math.Sin(decMoon)*math.Sin(decSun) +
		math.Cos(decMoon)*math.Cos(decSun)*math.Cos(raMoon-raSun)
	E := math.Acos(math.Max(-1, math.Min(1, cosE)))

	// Phase angle i ≈ π - E; the distance-based form needs Sun-Moon distance
	phaseAngle := math.Pi - E

	// Position angle of the bright limb χ (Meeus eq. 48.5)
	chi := normalizeRadians(BrightLimbAngle(raSun, decSun, raMoon, decMoon))

	// Terminator angle θ (perpendicular to bright limb direction)
	theta := normalizeRadians(chi + math.Pi/2)

	result := CrescentAngle{
		BrightLimbAngle: radToDeg(chi),
		TerminatorAngle: radToDeg(theta),
		PhaseAngle:      radToDeg(phaseAngle),
		Illumination:    (1 + math.Cos(phaseAngle)) / 2,
	}

	// No location configured: geocentric orientation only
	if latDeg == 0 && lonDeg == 0 {
		result.Rotation = radToDeg(-theta)
		result.LocalTerminator = radToDeg(theta)
		return result
	}

	q := ParallacticAngle(localSiderealTime(jd, lonDeg)-raMoon, degToRad(latDeg), decMoon)
	thetaLocal := normalizeRadians(theta - q)

	result.ParallacticAngle = radToDeg(q)
	result.LocalTerminator = radToDeg(thetaLocal)
	// CSS clockwise rotation with 0 pointing up: negate θ_local
	result.Rotation = radToDeg(-thetaLocal)

	return result
}

// BrightLimbAngle returns the position angle of the Moon's bright limb in
// radians, measured from celestial north toward east (Meeus eq. 48.5).
// All arguments are in radians.
func BrightLimbAngle(raSun, decSun, raMoon, decMoon float64) float64 {
	deltaRA := raSun - raMoon
	y := math.Cos(decSun) * math.Sin(deltaRA)
	x := math.Sin(decSun)*math.Cos(decMoon) - math.Cos(decSun)*math.Sin(decMoon)*math.Cos(deltaRA)
	return math.Atan2(y, x)
}

// ParallacticAngle returns the rotation between celestial north and the
// local zenith at the Moon's position (Meeus eq. 14.1). hourAngle, lat and
// dec are in radians.
func ParallacticAngle(hourAngle, lat, dec float64) float64 {
	return math.Atan2(math.Sin(hourAngle), math.Tan(lat)*math.Cos(dec)-math.Sin(dec)*math.Cos(hourAngle))
}
