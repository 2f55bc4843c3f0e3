package wizard

// Field keys double as error-slot names and form input names.
const (
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldNationalID  = "nik"
	FieldFullName    = "nama"
	FieldBirthPlace  = "tempat-lahir"
	FieldBirthDate   = "tanggal-lahir"
	FieldInstitution = "instansi"
	FieldTaxID       = "npwp"
	FieldComments    = "saran"
)

// DefaultMessages are the inline validation texts.  A survey definition may
// override any of them.
var DefaultMessages = map[string]string{
	FieldEmail:       "Format email tidak valid",
	FieldPassword:    "Kata sandi harus diisi",
	FieldNationalID:  "NIK harus 16 digit angka",
	FieldFullName:    "Nama lengkap harus diisi",
	FieldBirthPlace:  "Tempat lahir harus diisi",
	FieldBirthDate:   "Tanggal lahir harus diisi",
	FieldInstitution: "Instansi harus diisi",
	FieldTaxID:       "Format NPWP tidak valid (contoh: 12.345.678.9-012.345)",
}

// Page field order decides the order of reported failures.
var (
	loginFields   = []string{FieldEmail, FieldPassword}
	biodataFields = []string{
		FieldNationalID,
		FieldFullName,
		FieldBirthPlace,
		FieldBirthDate,
		FieldInstitution,
		FieldTaxID,
	}
)

// Demo credentials used by the simulated Google sign-in.
const (
	DemoEmail    = "user.example@gmail.com"
	DemoPassword = "********"
)
