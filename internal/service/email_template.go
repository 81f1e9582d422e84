package service

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
	"regexp"
	"strings"
	"time"

	"ketpa-backend/internal/domain/entity"
)

const calendarLayout = "20060102T150405"

var httpURL = regexp.MustCompile(`(?i)^https?://`)

var confirmationTemplate = template.Must(template.New("confirmation").Parse(`
<span style="display:none !important;">Your appointment is confirmed. See details inside.</span>
<table role="presentation" cellpadding="0" cellspacing="0" width="100%" style="background:#f9fafb; padding:24px; font-family:Arial, Helvetica, sans-serif;">
  <tr><td align="center">
    <table role="presentation" cellpadding="0" cellspacing="0" width="100%" style="max-width:600px; background:#ffffff; border-radius:12px; border:1px solid #e5e7eb;">
      <tr><td align="center" style="padding:32px 16px;">
        <div style="font-size:22px; font-weight:600; color:#111827;">{{.Heading}}</div>
        <div style="font-size:14px; color:#6b7280; margin-top:6px;">Thank you for booking with Ketpa</div>
      </td></tr>
      <tr><td style="padding:0 32px 24px; color:#374151; font-size:15px; line-height:1.6;">
        Hello <strong>{{.RecipientName}}</strong>,<br><br>
        The appointment below is <span style="color:#059669; font-weight:600;">confirmed</span>.
      </td></tr>
      <tr><td style="padding:0 32px 32px;">
        <div><strong>Date:</strong> {{.Date}}</div>
        <div><strong>Time:</strong> {{.Time}} <span style="color:#6b7280;">{{.Timezone}}</span></div>
        <div><strong>Patient:</strong> {{.PatientName}}</div>
        <div><strong>Doctor:</strong> Dr. {{.DoctorName}}</div>
        <div><strong>Clinic:</strong> {{.ClinicName}}</div>
        <div><strong>Location:</strong><br>{{.AddressLine1}}<br>{{.AddressLine2}}</div>
        <div><strong>Booking ID:</strong> {{.BookingID}}</div>
      </td></tr>
      <tr><td align="center" style="padding:20px;">
        <a href="{{.CalendarURL}}" target="_blank" rel="noopener noreferrer" style="padding:12px 20px; color:#ffffff; background:#0a8f3c; border-radius:8px;">Add to Calendar</a>
        <a href="{{.MapsURL}}" target="_blank" rel="noopener noreferrer" style="padding:12px 20px; color:#1f2937; background:#eef2ff; border-radius:8px;">View on Map</a>
      </td></tr>
      <tr><td style="padding:24px 32px; font-size:13px; color:#6b7280;">
        Need to reschedule? <a href="{{.ManageURL}}">Manage booking</a>.
      </td></tr>
      <tr><td align="center" style="padding:16px; color:#9ca3af; font-size:12px;">&copy; {{.Year}} Ketpa. All rights reserved.</td></tr>
    </table>
  </td></tr>
</table>`))

var verificationTemplate = template.Must(template.New("verification").Parse(`
<table role="presentation" cellpadding="0" cellspacing="0" width="100%" style="background:#f9fafb; padding:24px; font-family:Arial, Helvetica, sans-serif;">
  <tr><td align="center">
    <table role="presentation" cellpadding="0" cellspacing="0" width="100%" style="max-width:560px; background:#ffffff; border-radius:12px; border:1px solid #e5e7eb;">
      <tr><td align="center" style="padding:28px 16px;">
        <div style="font-size:20px; font-weight:600; color:#111827;">Verify your email</div>
        <div style="font-size:14px; color:#6b7280; margin-top:6px;">Use the OTP below to complete verification</div>
      </td></tr>
      <tr><td align="center" style="padding:0 24px 8px;">
        <div style="display:inline-block; padding:14px 18px; font-size:26px; letter-spacing:4px; font-weight:700; background:#f3f4f6; border-radius:10px;">{{.OTP}}</div>
        <div style="margin-top:8px; font-size:12px; color:#6b7280;">This code expires in {{.ExpiryMinutes}} minutes.</div>
      </td></tr>
      <tr><td style="padding:16px 24px 24px; font-size:13px; color:#6b7280;">If you didn't request this, you can safely ignore this email.</td></tr>
      <tr><td align="center" style="padding:14px; color:#9ca3af; font-size:11px;">&copy; {{.Year}} Ketpa. All rights reserved.</td></tr>
    </table>
  </td></tr>
</table>`))

type confirmationData struct {
	Heading       string
	RecipientName string
	PatientName   string
	Date          string
	Time          string
	Timezone      string
	DoctorName    string
	ClinicName    string
	AddressLine1  string
	AddressLine2  string
	BookingID     string
	CalendarURL   string
	MapsURL       string
	ManageURL     string
	Year          int
}

// appointmentStart resolves the slot of an appointment to an instant in loc.
func appointmentStart(a *entity.Appointment, loc *time.Location) (time.Time, error) {
	midnight, err := a.SlotDate.Midnight(loc)
	if err != nil {
		return time.Time{}, err
	}
	return a.SlotTime.At(midnight)
}

func clinicLocation(doc entity.DoctorSnapshot) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{doc.ClinicName, doc.Address.Line1, doc.Address.Line2} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// CalendarLink builds a Google Calendar template link for a one hour event
// starting at the appointment slot.
func CalendarLink(a *entity.Appointment, loc *time.Location, manageURL string) (string, error) {
	start, err := appointmentStart(a, loc)
	if err != nil {
		return "", err
	}
	end := start.Add(time.Hour)

	title := fmt.Sprintf("Vet appointment with Dr. %s", a.Doctor.Name)
	if a.Doctor.ClinicName != "" {
		title += " - " + a.Doctor.ClinicName
	}

	details := fmt.Sprintf(
		"This is a reminder for your pet appointment.\n\nDoctor: Dr. %s\nClinic: %s\nWhen: %s at %s (%s)\nAddress: %s %s\nBooking ID: %s\n\nManage your booking: %s",
		a.Doctor.Name, a.Doctor.ClinicName, start.Format("02-01-2006"), a.SlotTime, loc.String(),
		a.Doctor.Address.Line1, a.Doctor.Address.Line2, a.ID, manageURL,
	)

	q := url.Values{}
	q.Set("action", "TEMPLATE")
	q.Set("text", title)
	q.Set("dates", start.Format(calendarLayout)+"/"+end.Format(calendarLayout))
	q.Set("ctz", loc.String())
	q.Set("details", details)
	q.Set("location", clinicLocation(a.Doctor))

	return "https://calendar.google.com/calendar/render?" + q.Encode(), nil
}

// MapsLink returns the doctor's location URL when it is an http(s) link, and
// a Google Maps search for the clinic address otherwise.
func MapsLink(doc entity.DoctorSnapshot) string {
	if httpURL.MatchString(doc.LocationURL) {
		return doc.LocationURL
	}
	q := url.Values{}
	q.Set("api", "1")
	q.Set("query", clinicLocation(doc))
	return "https://www.google.com/maps/search/?" + q.Encode()
}

func renderConfirmation(a *entity.Appointment, recipientName, heading string, loc *time.Location, manageURL string, now time.Time) (string, error) {
	start, err := appointmentStart(a, loc)
	if err != nil {
		return "", err
	}
	calendarURL, err := CalendarLink(a, loc, manageURL)
	if err != nil {
		return "", err
	}

	data := confirmationData{
		Heading:       heading,
		RecipientName: recipientName,
		PatientName:   a.Patient.Name,
		Date:          start.Format("02-01-2006"),
		Time:          a.SlotTime.String(),
		Timezone:      start.Format("MST"),
		DoctorName:    a.Doctor.Name,
		ClinicName:    a.Doctor.ClinicName,
		AddressLine1:  a.Doctor.Address.Line1,
		AddressLine2:  a.Doctor.Address.Line2,
		BookingID:     a.ID.String(),
		CalendarURL:   calendarURL,
		MapsURL:       MapsLink(a.Doctor),
		ManageURL:     manageURL,
		Year:          now.Year(),
	}

	var buf bytes.Buffer
	if err := confirmationTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderVerification(otp string, expiry time.Duration, now time.Time) (string, error) {
	var buf bytes.Buffer
	err := verificationTemplate.Execute(&buf, struct {
		OTP           string
		ExpiryMinutes int
		Year          int
	}{otp, int(expiry.Minutes()), now.Year()})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
