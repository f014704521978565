package dictionary

// referenceQualifier maps REF01 qualifier codes to descriptions.
var referenceQualifier = map[string]string{
	"0B": "State License Number",
	"0K": "Policy Form Identifying Number",
	"1A": "Blue Cross Provider Number",
	"1B": "Blue Shield Provider Number",
	"1C": "Medicare Provider Number",
	"1D": "Medicaid Provider Number",
	"1G": "Provider UPIN Number",
	"1J": "Facility ID Number",
	"1L": "Group or Policy Number",
	"1S": "Ambulatory Patient Group (APG) Number",
	"1W": "Member Identification Number",
	"28": "Employee Identification Number",
	"2U": "Payer Identification Number",
	"6P": "Group Number",
	"6R": "Provider Control Number",
	"9A": "Repriced Claim Reference Number",
	"9C": "Adjusted Repriced Claim Reference Number",
	"APC": "Ambulatory Payment Classification",
	"BB":  "Authorization Number",
	"CE":  "Class of Contract Code",
	"D3":  "National Council for Prescription Drug Programs Pharmacy Number",
	"E9":  "Attachment Code",
	"EA":  "Medical Record Identification Number",
	"EO":  "Submitter Identification Number",
	"EV":  "Receiver Identification Number",
	"F2":  "Version Code - Local",
	"F8":  "Original Reference Number",
	"G1":  "Prior Authorization Number",
	"G2":  "Provider Commercial Number",
	"G3":  "Predetermination of Benefits Identification Number",
	"HPI": "Centers for Medicare and Medicaid Services National Provider Identifier",
	"IG":  "Insurance Policy Number",
	"LU":  "Location Number",
	"NF":  "National Association of Insurance Commissioners (NAIC) Code",
	"PQ":  "Payee Identification",
	"RB":  "Rate Code Number",
	"SY":  "Social Security Number",
	"TJ":  "Federal Taxpayer's Identification Number",
}

// dateQualifier maps DTM01 qualifier codes to descriptions.
var dateQualifier = map[string]string{
	"036": "Coverage Expiration",
	"050": "Received",
	"150": "Service Period Start",
	"151": "Service Period End",
	"232": "Claim Statement Period Start",
	"233": "Claim Statement Period End",
	"405": "Production",
	"472": "Service",
}

// entityIdentifier maps NM101 entity identifier codes to descriptions.
var entityIdentifier = map[string]string{
	"03": "Dependent",
	"1P": "Provider",
	"2B": "Third-Party Administrator",
	"36": "Employer",
	"40": "Receiver",
	"41": "Submitter",
	"45": "Drop-off Location",
	"71": "Attending Physician",
	"72": "Operating Physician",
	"73": "Other Physician",
	"74": "Corrected Insured",
	"77": "Service Location",
	"82": "Rendering Provider",
	"85": "Billing Provider",
	"87": "Pay-to Provider",
	"98": "Receiver",
	"DN": "Referring Provider",
	"FA": "Facility",
	"GB": "Other Insured",
	"IL": "Insured or Subscriber",
	"PE": "Payee",
	"PR": "Payer",
	"PW": "Pickup Address",
	"QC": "Patient",
	"TT": "Transfer To",
}

// plbReason maps PLB adjustment reason codes to descriptions.
var plbReason = map[string]string{
	"50": "Late Charge",
	"51": "Interest Penalty Charge",
	"72": "Authorized Return",
	"90": "Early Payment Allowance",
	"AH": "Origination Fee",
	"AM": "Applied to Borrower's Account",
	"AP": "Acceleration of Benefits",
	"B2": "Rebate",
	"B3": "Recovery Allowance",
	"BD": "Bad Debt Adjustment",
	"BN": "Bonus",
	"C5": "Temporary Allowance",
	"CR": "Capitation Interest",
	"CS": "Adjustment",
	"CT": "Capitation Payment",
	"CV": "Capital Passthru",
	"CW": "Certified Registered Nurse Anesthetist Passthru",
	"DM": "Direct Medical Education Passthru",
	"E3": "Withholding",
	"FB": "Forwarding Balance",
	"FC": "Fund Allocation",
	"GO": "Graduate Medical Education Passthru",
	"HM": "Hemophilia Clotting Factor Supplement",
	"IP": "Incentive Premium Payment",
	"IR": "Internal Revenue Service Withholding",
	"IS": "Interim Settlement",
	"J1": "Nonreimbursable",
	"L3": "Penalty",
	"L6": "Interest Owed",
	"LE": "Levy",
	"LS": "Lump Sum",
	"OA": "Organ Acquisition Passthru",
	"OB": "Offset for Affiliated Providers",
	"PI": "Periodic Interim Payment",
	"PL": "Payment Final",
	"RA": "Retro-activity Adjustment",
	"RE": "Return on Equity",
	"SL": "Student Loan Repayment",
	"TL": "Third Party Liability",
	"WO": "Overpayment Recovery",
	"WU": "Unspecified Recovery",
}

// amountQualifier maps AMT01 qualifier codes to descriptions.
var amountQualifier = map[string]string{
	"A8":  "Noncovered Charges - Actual",
	"AU":  "Coverage Amount",
	"B6":  "Allowed - Actual",
	"D8":  "Discount Amount",
	"DY":  "Per Day Limit",
	"F5":  "Patient Amount Paid",
	"I":   "Interest",
	"NL":  "Negative Ledger Balance",
	"T":   "Tax",
	"T2":  "Total Claim Before Taxes",
	"ZK":  "Federal Medicare or Medicaid Payment Mandate - Category 1",
	"ZL":  "Federal Medicare or Medicaid Payment Mandate - Category 2",
	"ZM":  "Federal Medicare or Medicaid Payment Mandate - Category 3",
	"ZN":  "Federal Medicare or Medicaid Payment Mandate - Category 4",
	"ZO":  "Federal Medicare or Medicaid Payment Mandate - Category 5",
}

// quantityQualifier maps QTY01 qualifier codes to descriptions.
var quantityQualifier = map[string]string{
	"CA": "Covered - Actual",
	"CD": "Co-insured - Actual",
	"LA": "Life-time Reserve - Actual",
	"LE": "Life-time Reserve - Estimated",
	"NE": "Non-Covered - Estimated",
	"NR": "Not Replaced Blood Units",
	"OU": "Outlier Days",
	"PS": "Prescription",
	"VS": "Visits",
	"ZK": "Federal Medicare or Medicaid Payment Mandate - Category 1",
	"ZL": "Federal Medicare or Medicaid Payment Mandate - Category 2",
	"ZM": "Federal Medicare or Medicaid Payment Mandate - Category 3",
	"ZN": "Federal Medicare or Medicaid Payment Mandate - Category 4",
	"ZO": "Federal Medicare or Medicaid Payment Mandate - Category 5",
}

// claimFrequency maps CLP09 claim frequency codes to descriptions.
var claimFrequency = map[string]string{
	"1": "Original Claim",
	"2": "Interim - First Claim",
	"3": "Interim - Continuing Claim",
	"4": "Interim - Last Claim",
	"7": "Replacement of Prior Claim",
	"8": "Void/Cancel of Prior Claim",
}

// dischargeStatus maps CLP11/MIA patient discharge status codes.
var dischargeStatus = map[string]string{
	"01": "Discharged to home or self care",
	"02": "Discharged/transferred to a short-term general hospital",
	"03": "Discharged/transferred to skilled nursing facility",
	"04": "Discharged/transferred to an intermediate care facility",
	"05": "Discharged/transferred to a designated cancer center or children's hospital",
	"06": "Discharged/transferred to home under care of organized home health service",
	"07": "Left against medical advice",
	"09": "Admitted as an inpatient to this hospital",
	"20": "Expired",
	"21": "Discharged/transferred to court/law enforcement",
	"30": "Still patient",
	"43": "Discharged/transferred to a federal health care facility",
	"50": "Hospice - home",
	"51": "Hospice - medical facility",
	"62": "Discharged/transferred to an inpatient rehabilitation facility",
	"63": "Discharged/transferred to a Medicare certified long term care hospital",
	"65": "Discharged/transferred to a psychiatric hospital or unit",
	"66": "Discharged/transferred to a Critical Access Hospital",
}

// ReferenceQualifier returns the description for a REF01 qualifier code.
func ReferenceQualifier(code string) string { return referenceQualifier[code] }

// DateQualifier returns the description for a DTM01 qualifier code.
func DateQualifier(code string) string { return dateQualifier[code] }

// EntityIdentifier returns the description for an NM101 entity code.
func EntityIdentifier(code string) string { return entityIdentifier[code] }

// PLBReason returns the description for a PLB adjustment reason code.
func PLBReason(code string) string { return plbReason[code] }

// AmountQualifier returns the description for an AMT01 qualifier code.
func AmountQualifier(code string) string { return amountQualifier[code] }

// QuantityQualifier returns the description for a QTY01 qualifier code.
func QuantityQualifier(code string) string { return quantityQualifier[code] }

// ClaimFrequency returns the description for a CLP09 frequency code.
func ClaimFrequency(code string) string { return claimFrequency[code] }

// DischargeStatus returns the description for a patient discharge
// status code.
func DischargeStatus(code string) string { return dischargeStatus[code] }
