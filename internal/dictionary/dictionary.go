// Package dictionary provides lookup tables for X12 835 code values.
//
// The tables cover the code sets that appear on a remittance advice:
// claim status (CLP02), claim filing indicator (CLP06), payment method
// (BPR04), adjustment group codes (CAS01), claim adjustment reason
// codes (CARC) and remittance advice remark codes (RARC). Descriptions
// are the published external code list wording, shortened where the
// official text runs to a paragraph.
package dictionary

// claimStatus maps CLP02 values to their descriptions.
var claimStatus = map[string]string{
	"1":  "Processed as Primary",
	"2":  "Processed as Secondary",
	"3":  "Processed as Tertiary",
	"4":  "Denied",
	"5":  "Pended",
	"10": "Received, but not in process",
	"13": "Suspended",
	"14": "Suspended - investigation with field",
	"15": "Suspended - return with material",
	"16": "Suspended - review pending",
	"17": "Pended - documentation requested from provider",
	"18": "Pended - documentation requested from others",
	"19": "Processed as Primary, Forwarded to Additional Payer(s)",
	"20": "Processed as Secondary, Forwarded to Additional Payer(s)",
	"21": "Processed as Tertiary, Forwarded to Additional Payer(s)",
	"22": "Reversal of Previous Payment",
	"23": "Not Our Claim, Forwarded to Additional Payer(s)",
	"25": "Predetermination Pricing Only - No Payment",
	"27": "Reviewed",
}

// pendedStatuses are the CLP02 values that indicate the claim is held
// rather than finalized. Claims with these statuses are routed to the
// pended report instead of the consolidated output.
var pendedStatuses = map[string]bool{
	"5": true, "13": true, "14": true, "15": true,
	"16": true, "17": true, "18": true,
}

// filingIndicator maps CLP06 values to payer type descriptions.
var filingIndicator = map[string]string{
	"09": "Self-pay",
	"10": "Central Certification",
	"11": "Other Non-Federal Programs",
	"12": "Preferred Provider Organization (PPO)",
	"13": "Point of Service (POS)",
	"14": "Exclusive Provider Organization (EPO)",
	"15": "Indemnity Insurance",
	"16": "Health Maintenance Organization (HMO) Medicare Risk",
	"17": "Dental Maintenance Organization",
	"AM": "Automobile Medical",
	"BL": "Blue Cross/Blue Shield",
	"CH": "CHAMPUS",
	"CI": "Commercial Insurance Co.",
	"DS": "Disability",
	"FI": "Federal Employees Program",
	"HM": "Health Maintenance Organization",
	"LM": "Liability Medical",
	"MA": "Medicare Part A",
	"MB": "Medicare Part B",
	"MC": "Medicaid",
	"OF": "Other Federal Program",
	"TV": "Title V",
	"VA": "Veterans Affairs Plan",
	"WC": "Workers' Compensation Health Claim",
	"ZZ": "Mutually Defined",
}

// paymentMethod maps BPR04 values to payment method descriptions.
var paymentMethod = map[string]string{
	"ACH": "Automated Clearing House",
	"BOP": "Financial Institution Option",
	"CHK": "Check",
	"FWT": "Federal Reserve Funds/Wire Transfer",
	"NON": "Non-Payment Data",
}

// paymentFormat maps BPR05 values to payment format descriptions.
var paymentFormat = map[string]string{
	"CCP": "Cash Concentration/Disbursement plus Addenda (CCD+)",
	"CTX": "Corporate Trade Exchange (CTX)",
}

// groupCode maps CAS01 values to adjustment group descriptions.
var groupCode = map[string]string{
	"CO": "Contractual Obligations",
	"CR": "Correction and Reversals",
	"OA": "Other Adjustments",
	"PI": "Payor Initiated Reductions",
	"PR": "Patient Responsibility",
}

// carc maps claim adjustment reason codes to descriptions. The set
// covers the codes observed in ambulance remittances; unlisted codes
// still flow through with an empty description.
var carc = map[string]string{
	"1":   "Deductible Amount",
	"2":   "Coinsurance Amount",
	"3":   "Co-payment Amount",
	"4":   "The procedure code is inconsistent with the modifier used",
	"5":   "The procedure code/type of bill is inconsistent with the place of service",
	"6":   "The procedure/revenue code is inconsistent with the patient's age",
	"11":  "The diagnosis is inconsistent with the procedure",
	"12":  "The diagnosis is inconsistent with the provider type",
	"13":  "The date of death precedes the date of service",
	"15":  "The authorization number is missing, invalid, or does not apply to the billed services or provider",
	"16":  "Claim/service lacks information or has submission/billing error(s)",
	"18":  "Exact duplicate claim/service",
	"19":  "This is a work-related injury/illness and thus the liability of the Worker's Compensation Carrier",
	"20":  "This injury/illness is covered by the liability carrier",
	"21":  "This injury/illness is the liability of the no-fault carrier",
	"22":  "This care may be covered by another payer per coordination of benefits",
	"23":  "The impact of prior payer(s) adjudication including payments and/or adjustments",
	"24":  "Charges are covered under a capitation agreement/managed care plan",
	"26":  "Expenses incurred prior to coverage",
	"27":  "Expenses incurred after coverage terminated",
	"29":  "The time limit for filing has expired",
	"31":  "Patient cannot be identified as our insured",
	"32":  "Our records indicate the patient is not an eligible dependent",
	"33":  "Insured has no dependent coverage",
	"34":  "Insured has no coverage for newborns",
	"35":  "Lifetime benefit maximum has been reached",
	"36":  "Balance does not exceed co-payment amount",
	"37":  "Balance does not exceed deductible",
	"39":  "Services denied at the time authorization/pre-certification was requested",
	"40":  "Charges do not meet qualifications for emergent/urgent care",
	"45":  "Charge exceeds fee schedule/maximum allowable or contracted/legislated fee arrangement",
	"50":  "These are non-covered services because this is not deemed a medical necessity by the payer",
	"51":  "These are non-covered services because this is a pre-existing condition",
	"54":  "Multiple physicians/assistants are not covered in this case",
	"55":  "Procedure/treatment/drug is deemed experimental/investigational by the payer",
	"58":  "Treatment was deemed by the payer to have been rendered in an inappropriate or invalid place of service",
	"59":  "Processed based on multiple or concurrent procedure rules",
	"60":  "Charges for outpatient services are not covered when performed within a period of time prior to or after inpatient services",
	"66":  "Blood Deductible",
	"69":  "Day outlier amount",
	"70":  "Cost outlier - Adjustment to compensate for additional costs",
	"78":  "Non-Covered days/Room charge adjustment",
	"85":  "Patient Interest Adjustment",
	"89":  "Professional fees removed from charges",
	"94":  "Processed in Excess of charges",
	"95":  "Plan procedures not followed",
	"96":  "Non-covered charge(s)",
	"97":  "The benefit for this service is included in the payment/allowance for another service/procedure that has already been adjudicated",
	"100": "Payment made to patient/insured/responsible party",
	"104": "Managed care withholding",
	"107": "The related or qualifying claim/service was not identified on this claim",
	"109": "Claim/service not covered by this payer/contractor",
	"110": "Billing date predates service date",
	"111": "Not covered unless the provider accepts assignment",
	"112": "Service not furnished directly to the patient and/or not documented",
	"119": "Benefit maximum for this time period or occurrence has been reached",
	"125": "Submission/billing error(s)",
	"129": "Prior processing information appears incorrect",
	"131": "Claim specific negotiated discount",
	"136": "Failure to follow prior payer's coverage rules",
	"146": "Diagnosis was invalid for the date(s) of service reported",
	"147": "Provider contracted/negotiated rate expired or not on file",
	"149": "Lifetime benefit maximum has been reached for this service/benefit category",
	"150": "Payer deems the information submitted does not support this level of service",
	"151": "Payment adjusted because the payer deems the information submitted does not support this many/frequency of services",
	"160": "Injury/illness was the result of an activity that is a benefit exclusion",
	"167": "This (these) diagnosis(es) is (are) not covered",
	"168": "Service(s) have been considered under the patient's medical plan",
	"170": "Payment is denied when performed/billed by this type of provider",
	"171": "Payment is denied when performed/billed by this type of provider in this type of facility",
	"172": "Payment is adjusted when performed/billed by a provider of this specialty",
	"173": "Service/equipment was not prescribed by a physician",
	"177": "Patient has not met the required eligibility requirements",
	"181": "Procedure code was invalid on the date of service",
	"182": "Procedure modifier was invalid on the date of service",
	"185": "The rendering provider is not eligible to perform the service billed",
	"197": "Precertification/authorization/notification/pre-treatment absent",
	"198": "Precertification/notification/authorization/pre-treatment exceeded",
	"199": "Revenue code and Procedure code do not match",
	"204": "This service/equipment/drug is not covered under the patient's current benefit plan",
	"208": "National Provider Identifier - Not matched",
	"215": "Based on subrogation of a third party settlement",
	"216": "Based on the findings of a review organization",
	"217": "Based on payer reasonable and customary fees",
	"222": "Exceeds the contracted maximum number of hours/days/units by this provider for this period",
	"226": "Information requested from the Billing/Rendering Provider was not provided or was insufficient/incomplete",
	"227": "Information requested from the patient/insured/responsible party was not provided or was insufficient/incomplete",
	"234": "This procedure is not paid separately",
	"242": "Services not provided by network/primary care providers",
	"246": "This non-payable code is for required reporting only",
	"247": "Deductible for Professional service rendered in an Institutional setting and billed on an Institutional claim",
	"248": "Coinsurance for Professional service rendered in an Institutional setting and billed on an Institutional claim",
	"249": "This claim has been identified as a readmission",
	"252": "An attachment/other documentation is required to adjudicate this claim/service",
	"253": "Sequestration - reduction in federal payment",
	"256": "Service not payable per managed care contract",
	"272": "Coverage/program guidelines were not met",
	"273": "Coverage/program guidelines were exceeded",
	"276": "Services denied by the prior payer(s) are not covered by this payer",
	"288": "Referral absent",
	"290": "Claim received by the medical plan, but benefits not available under this plan",
	"297": "Claim received by the medical plan, but benefits not available under this plan. Submit these services to the patient's vision plan for further consideration",
	"299": "The billed provider is not supervised by a self-referral prohibited provider",
	"303": "Prior payer's (or payers') patient responsibility not covered for Qualified Medicare and Medicaid Beneficiaries",
	"A1":  "Claim/Service denied",
	"A8":  "Ungroupable DRG",
	"B7":  "This provider was not certified/eligible to be paid for this procedure/service on this date of service",
	"B13": "Previously paid. Payment for this claim/service may have been provided in a previous payment",
	"B15": "This service/procedure requires that a qualifying service/procedure be received and covered",
	"B20": "Procedure/service was partially or fully furnished by another provider",
	"B22": "This payment is adjusted based on the diagnosis",
	"P1":  "State-mandated Requirement for Property and Casualty",
}

// rarc maps remittance advice remark codes to descriptions.
var rarc = map[string]string{
	"M15":  "Separately billed services/tests have been bundled as they are considered components of the same procedure",
	"M51":  "Missing/incomplete/invalid procedure code(s)",
	"M76":  "Missing/incomplete/invalid diagnosis or condition",
	"M77":  "Missing/incomplete/invalid/inappropriate place of service",
	"M79":  "Missing/incomplete/invalid charge",
	"M80":  "Not covered when performed during the same session/date as a previously processed service for the patient",
	"M86":  "Service denied because payment already made for same/similar procedure within set time frame",
	"M127": "Missing patient medical record for this service",
	"MA04": "Secondary payment cannot be considered without the identity of or payment information from the primary payer",
	"MA07": "The claim information has also been forwarded to Medicaid for review",
	"MA15": "Your claim has been separated to expedite handling",
	"MA18": "The claim information is also being forwarded to the patient's supplemental insurer",
	"MA63": "Missing/incomplete/invalid principal diagnosis",
	"MA66": "Missing/incomplete/invalid principal procedure code",
	"MA92": "Missing plan information for other insurance",
	"MA130": "Your claim contains incomplete and/or invalid information, and no appeal rights are afforded because the claim is unprocessable",
	"N1":   "Alert: You may appeal this decision",
	"N4":   "Missing/Incomplete/Invalid prior Insurance Carrier(s) EOB",
	"N19":  "Procedure code incidental to primary procedure",
	"N20":  "Service not payable with other service rendered on the same date",
	"N30":  "Patient ineligible for this service",
	"N55":  "Procedures for billing with group/referring/performing providers were not followed",
	"N56":  "Procedure code billed is not correct/valid for the services billed or the date of service billed",
	"N59":  "Alert: Please refer to your provider manual for additional program and provider information",
	"N95":  "This provider type/provider specialty may not bill this service",
	"N102": "This claim has been denied without reviewing the medical/dental record because the requested records were not received or were not received timely",
	"N115": "This decision was based on a Local Coverage Determination (LCD)",
	"N122": "Add-on code cannot be billed by itself",
	"N130": "Consult plan benefit documents/guidelines for information about restrictions for this service",
	"N179": "Additional information has been requested from the member",
	"N192": "Patient is a Medicaid/Qualified Medicare Beneficiary",
	"N286": "Missing/incomplete/invalid referring provider primary identifier",
	"N290": "Missing/incomplete/invalid rendering provider primary identifier",
	"N362": "The number of Days or Units of Service exceeds our acceptable maximum",
	"N381": "Alert: Consult our contractual agreement for restrictions/billing/payment information related to these charges",
	"N386": "This decision was based on a National Coverage Determination (NCD)",
	"N426": "No coverage available for Pharmacy or Durable Medical Equipment services",
	"N427": "Payment for eyeglasses or contact lenses can be made only after cataract surgery",
	"N428": "Not covered when performed in this place of service",
	"N429": "Not covered when considered routine",
	"N448": "This drug/service/supply is not included in the fee schedule or contracted/legislated fee arrangement",
	"N479": "Missing Explanation of Benefits (Coordination of Benefits or Medicare Secondary Payer)",
	"N522": "Duplicate of a claim processed, or to be processed, as a crossover claim",
	"N598": "Health care policy coverage is primary",
	"N657": "This should be billed with the appropriate code for these services",
	"N700": "Payment adjusted based on the Electronic Health Records (EHR) Incentive Program",
	"N702": "Decision based on review of previously adjudicated claims or for claims in process for the same/similar type of services",
	"N781": "Alert: Patient deductible amounts may be collected from the patient",
	"N782": "Alert: Patient coinsurance amounts may be collected from the patient",
	"N830": "Alert: The charge[s] for this service was processed in accordance with Federal/State, Balance Billing/No Surprise Billing regulations",
	"N892": "Alert: This claim was processed per New York State Department of Health guidance",
	"N908": "Alert: Payment is based on the Medi-Cal fee schedule",
	"N909": "Alert: Payment reflects Medi-Cal reimbursement policy",
	"N910": "Alert: Claim adjudicated under Medi-Cal managed care carve-out rules",
	"N911": "Alert: Payment adjusted per Medi-Cal rate methodology",
	"N912": "Alert: Service subject to Medi-Cal prior authorization requirements",
	"N913": "Alert: Payment reflects Medi-Cal supplemental reimbursement",
}

// ClaimStatus returns the description for a CLP02 claim status code,
// or an empty string when the code is not recognized.
func ClaimStatus(code string) string { return claimStatus[code] }

// IsPendedStatus reports whether a CLP02 status indicates the claim is
// held pending rather than finalized.
func IsPendedStatus(code string) bool { return pendedStatuses[code] }

// FilingIndicator returns the description for a CLP06 claim filing
// indicator code.
func FilingIndicator(code string) string { return filingIndicator[code] }

// PaymentMethod returns the description for a BPR04 payment method code.
func PaymentMethod(code string) string { return paymentMethod[code] }

// PaymentFormat returns the description for a BPR05 payment format code.
func PaymentFormat(code string) string { return paymentFormat[code] }

// GroupCode returns the description for a CAS01 adjustment group code.
func GroupCode(code string) string { return groupCode[code] }

// CARC returns the description for a claim adjustment reason code.
func CARC(code string) string { return carc[code] }

// IsKnownCARC reports whether the code appears in the published reason
// code list. Used when deciding whether a payer-padded code such as
// "045" can safely be normalized to "45".
func IsKnownCARC(code string) bool {
	_, ok := carc[code]
	return ok
}

// RARC returns the description for a remittance advice remark code.
func RARC(code string) string { return rarc[code] }
