package domain

// Canonical column names referenced across packages. Names encode the source
// segment and loop (e.g. L2100_CLP) the way downstream analysts expect them.
const (
	// Envelope / file provenance
	ColFilename              = "Filename_File"
	ColPendedReport          = "Report_835S"
	ColISAControlNumber      = "ENV_InterchangeControlNumber_Envelope_ISA"
	ColISADate               = "ENV_InterchangeDate_Envelope_ISA"
	ColISATime               = "ENV_InterchangeTime_Envelope_ISA"
	ColISASenderID           = "ENV_SenderID_Envelope_ISA"
	ColISAReceiverID         = "ENV_ReceiverID_Envelope_ISA"
	ColISAUsageIndicator     = "ENV_UsageIndicator_Envelope_ISA"
	ColGSControlNumber       = "ENV_GroupControlNumber_Envelope_GS"
	ColGSDate                = "ENV_GroupDate_Envelope_GS"
	ColGSVersionCode         = "ENV_VersionCode_Envelope_GS"
	ColSTControlNumber       = "ENV_TransactionControlNumber_Header_ST"
	ColSTConventionRef       = "ENV_ImplementationConventionRef_Header_ST"

	// Check / payment header (BPR, TRN, header DTM/REF)
	ColCheckHandlingCode   = "CHK_TransactionHandlingCode_Header_BPR"
	ColCheckAmount         = "CHK_Amount_Header_BPR"
	ColCheckCreditDebit    = "CHK_CreditDebitFlag_Header_BPR"
	ColCheckPaymentMethod  = "CHK_PaymentMethod_Header_BPR"
	ColCheckPaymentDesc    = "CHK_PaymentMethodDesc_Header_BPR"
	ColCheckPaymentFormat  = "CHK_PaymentFormat_Header_BPR"
	ColCheckFormatDesc     = "CHK_PaymentFormatDesc_Header_BPR"
	ColCheckEffectiveDate  = "CHK_EffectiveDate_Header_BPR"
	ColCheckTraceNumber    = "CHK_TraceNumber_Header_TRN"
	ColCheckTraceType      = "CHK_TraceType_Header_TRN"
	ColCheckOriginCompany  = "CHK_OriginatingCompanyID_Header_TRN"
	ColCheckProductionDate = "CHK_ProductionDate_Header_DTM"
	ColCheckReceiverID     = "CHK_ReceiverID_Header_REF"
	ColCheckPayerAddlID    = "CHK_PayerAdditionalID_Header_REF"
	ColCurrencyCode        = "CUR_CurrencyCode_Header_CUR"
	ColExchangeRate        = "CUR_ExchangeRate_Header_CUR"
	ColRDMTransmissionCode = "RDM_TransmissionCode_Header_RDM"
	ColRDMName             = "RDM_Name_Header_RDM"

	// Payer (L1000A)
	ColPayerName        = "Payer_Name_L1000A_N1"
	ColPayerIDQualifier = "Payer_IDQualifier_L1000A_N1"
	ColPayerID          = "Payer_ID_L1000A_N1"
	ColPayerAddress     = "Payer_Address_L1000A_N3"
	ColPayerAddress2    = "Payer_Address2_L1000A_N3"
	ColPayerCity        = "Payer_City_L1000A_N4"
	ColPayerState       = "Payer_State_L1000A_N4"
	ColPayerZip         = "Payer_Zip_L1000A_N4"
	ColPayerContactBL   = "Payer_ContactBL_Name_L1000A_PER"
	ColPayerContactBLNo = "Payer_ContactBL_Number_L1000A_PER"
	ColPayerContactCX   = "Payer_ContactCX_Name_L1000A_PER"
	ColPayerContactCXNo = "Payer_ContactCX_Number_L1000A_PER"
	ColPayerContactIC   = "Payer_ContactIC_Name_L1000A_PER"
	ColPayerContactICNo = "Payer_ContactIC_Number_L1000A_PER"
	ColEffectivePayer   = "Effective_PayerName"
	ColPayerKey         = "Payer_RegistryKey"

	// Payee / provider (L1000B)
	ColProviderName        = "Provider_Name_L1000B_N1"
	ColProviderIDQualifier = "Provider_IDQualifier_L1000B_N1"
	ColProviderID          = "Provider_ID_L1000B_N1"
	ColProviderTaxID       = "Provider_TaxID_L1000B_REF"
	ColProviderSecondaryID = "Provider_SecondaryID_L1000B_REF"
	ColProviderAddress     = "Provider_Address_L1000B_N3"
	ColProviderCity        = "Provider_City_L1000B_N4"
	ColProviderState       = "Provider_State_L1000B_N4"
	ColProviderZip         = "Provider_Zip_L1000B_N4"

	// Claim (L2100)
	ColClaimNumber         = "CLM_PatientControlNumber_L2100_CLP"
	ColRUN                 = "RUN"
	ColSEQ                 = "SEQ"
	ColClaimOccurrence     = "CLM_Occurrence"
	ColClaimStatus         = "CLM_Status_L2100_CLP"
	ColClaimStatusDesc     = "CLM_StatusDesc_L2100_CLP"
	ColClaimCharge         = "CLM_ChargeAmount_L2100_CLP"
	ColClaimPayment        = "CLM_PaymentAmount_L2100_CLP"
	ColClaimPatientResp    = "CLM_PatientResponsibility_L2100_CLP"
	ColClaimFilingIndic    = "CLM_FilingIndicator_L2100_CLP"
	ColClaimFilingDesc     = "CLM_FilingIndicatorDesc_L2100_CLP"
	ColClaimPayerControl   = "CLM_PayerControlNumber_L2100_CLP"
	ColClaimFacilityType   = "CLM_FacilityTypeCode_L2100_CLP"
	ColClaimFrequencyCode  = "CLM_FrequencyCode_L2100_CLP"
	ColClaimFrequencyDesc  = "CLM_FrequencyCodeDesc_L2100_CLP"
	ColClaimPatientStatus  = "CLM_PatientStatus_L2100_CLP"
	ColClaimPatientStatusDesc = "CLM_PatientStatusDesc_L2100_CLP"
	ColPatientLastName     = "CLM_PatientLastName_L2100_NM1"
	ColPatientFirstName    = "CLM_PatientFirstName_L2100_NM1"
	ColPatientID           = "CLM_PatientID_L2100_NM1"
	ColInsuredLastName     = "CLM_InsuredLastName_L2100_NM1"
	ColInsuredFirstName    = "CLM_InsuredFirstName_L2100_NM1"
	ColInsuredID           = "CLM_InsuredID_L2100_NM1"
	ColRenderingProvider   = "CLM_RenderingProviderName_L2100_NM1"
	ColRenderingProviderID = "CLM_RenderingProviderID_L2100_NM1"
	ColClaimPayerName      = "CLM_ClaimPayerName_L2100_NM1"
	ColClaimStartDate      = "CLM_ServiceStartDate_L2100_DTM"
	ColClaimEndDate        = "CLM_ServiceEndDate_L2100_DTM"
	ColClaimReceivedDate   = "CLM_ReceivedDate_L2100_DTM"
	ColClaimStatementTo    = "CLM_StatementToDate_L2100_DTM"
	ColClaimCoverageAmount = "CLM_CoverageAmount_L2100_AMT"
	ColClaimInterestAmount = "CLM_InterestAmount_L2100_AMT"
	ColClaimPatientPaid    = "CLM_PatientPaidAmount_L2100_AMT"
	ColClaimMemberID       = "CLM_MemberID_L2100_REF"
	ColClaimSSN            = "CLM_SSN_L2100_REF"
	ColClaimMRN            = "CLM_MedicalRecordNumber_L2100_REF"
	ColClaimPayerIDNumber  = "CLM_PayerIdentificationNumber_L2100_REF"
	ColClaimRemark1        = "CLM_RemarkCode1_L2100_MOA"
	ColClaimRemark2        = "CLM_RemarkCode2_L2100_MOA"
	ColClaimRemark3        = "CLM_RemarkCode3_L2100_MOA"
	ColClaimRemarkDesc1    = "CLM_RemarkDesc1_L2100_MOA"
	ColClaimRemarkDesc2    = "CLM_RemarkDesc2_L2100_MOA"
	ColClaimRemarkDesc3    = "CLM_RemarkDesc3_L2100_MOA"
	ColClaimReimburseRate  = "CLM_ReimbursementRate_L2100_MOA"
	ColClaimCoveredActual  = "CLM_CoveredActual_L2100_QTY"
	ColClaimAdjustSummary  = "CLM_AdjustmentSummary_L2100_CAS"

	// Ambulance pickup / dropoff (L2100 NM1*PW / NM1*45)
	ColAmbPickupName   = "AMB_PickupName_L2100_NM1"
	ColAmbPickupAddr   = "AMB_PickupAddress_L2100_N3"
	ColAmbPickupCity   = "AMB_PickupCity_L2100_N4"
	ColAmbPickupState  = "AMB_PickupState_L2100_N4"
	ColAmbPickupZip    = "AMB_PickupZip_L2100_N4"
	ColAmbDropoffName  = "AMB_DropoffName_L2100_NM1"
	ColAmbDropoffAddr  = "AMB_DropoffAddress_L2100_N3"
	ColAmbDropoffCity  = "AMB_DropoffCity_L2100_N4"
	ColAmbDropoffState = "AMB_DropoffState_L2100_N4"
	ColAmbDropoffZip   = "AMB_DropoffZip_L2100_N4"

	// Service (L2110)
	ColSVCProcedureQualifier = "SVC_ProcedureQualifier_L2110_SVC"
	ColSVCProcedureCode      = "SVC_ProcedureCode_L2110_SVC"
	ColSVCModifier1          = "SVC_Modifier1_L2110_SVC"
	ColSVCModifier2          = "SVC_Modifier2_L2110_SVC"
	ColSVCModifier3          = "SVC_Modifier3_L2110_SVC"
	ColSVCModifier4          = "SVC_Modifier4_L2110_SVC"
	ColSVCChargeAmount       = "SVC_ChargeAmount_L2110_SVC"
	ColSVCPaymentAmount      = "SVC_PaymentAmount_L2110_SVC"
	ColSVCUnits              = "SVC_Units_L2110_SVC"
	ColSVCOriginalProcedure  = "SVC_OriginalProcedure_L2110_SVC"
	ColSVCOriginalUnits      = "SVC_OriginalUnits_L2110_SVC"
	ColSVCStartDate          = "SVC_ServiceStartDate_L2110_DTM"
	ColSVCEndDate            = "SVC_ServiceEndDate_L2110_DTM"
	ColSVCAllowedAmount      = "SVC_AllowedAmount_L2110_AMT"
	ColSVCLineControlNumber  = "SVC_LineItemControlNumber_L2110_REF"
	ColSVCRemark1            = "SVC_RemarkCode1_L2110_LQ"
	ColSVCRemark2            = "SVC_RemarkCode2_L2110_LQ"
	ColSVCRemark3            = "SVC_RemarkCode3_L2110_LQ"
	ColSVCRemarkDesc1        = "SVC_RemarkDesc1_L2110_LQ"
	ColSVCRemarkDesc2        = "SVC_RemarkDesc2_L2110_LQ"
	ColSVCRemarkDesc3        = "SVC_RemarkDesc3_L2110_LQ"
	ColSVCPatientCount       = "SVC_AmbulancePatientCount_L2110_QTY"
	ColSVCCoveredActual      = "SVC_CoveredActual_L2110_QTY"
	ColSVCAdjustSummary      = "SVC_AdjustmentSummary_L2110_CAS"

	// Categorized adjustment buckets and derived amounts
	ColContractual        = "SVC_Contractual"
	ColDeductible         = "SVC_Deductible"
	ColCoinsurance        = "SVC_Coinsurance"
	ColCopay              = "SVC_Copay"
	ColDenied             = "SVC_Denied"
	ColCOB                = "SVC_COB"
	ColSequestration      = "SVC_Sequestration"
	ColHCRA               = "SVC_HCRA"
	ColQMB                = "SVC_QMB"
	ColOtherAdjustments   = "SVC_OtherAdjustments"
	ColPatientNonCovered  = "Patient_NonCovered"
	ColPatientOtherResp   = "Patient_OtherResp"
	ColAllowedAmount      = "Allowed_Amount"
	ColAllowedVerify      = "Allowed_Verification"
	ColMileageUnitPrice   = "EDI_MileageUnitPrice"

	// Provider level adjustments (PLB)
	ColPLBTotal   = "PLB_TotalAdjustments_PLB"
	ColPLBDetails = "PLB_Details_PLB"

	// Fair Health enrichment
	ColFHPickupZIP      = "FH_PickupZIP"
	ColFHEffectiveUnits = "FH_EffectiveUnits"
	ColFHOutOfNetwork   = "FH_OutOfNetwork"
	ColFHInNetwork      = "FH_InNetwork"
	ColFHOONUnitPrice   = "FH_OON_UnitPrice"
	ColFHINUnitPrice    = "FH_IN_UnitPrice"
	ColFHOONMiles       = "FH_OON_Miles"
	ColFHINMiles        = "FH_IN_Miles"
	ColFHOONFinal       = "FH_OON_Final"
	ColFHINFinal        = "FH_IN_Final"
)

// CASTrios is the number of adjustment trios carried per CAS level in the
// output. A single CAS segment holds at most six trios; payers in practice
// rarely exceed five per claim or line.
const CASTrios = 5

// PLBAdjSlots is the number of flattened PLB adjustment column groups.
const PLBAdjSlots = 6

// MIAElements is the number of MIA element positions carried in the output.
const MIAElements = 24

// miaElementNames names the Medicare inpatient adjudication positions.
var miaElementNames = [MIAElements + 1]string{
	1:  "CoveredDaysOrVisitsCount",
	2:  "PPSOperatingOutlierAmount",
	3:  "LifetimePsychiatricDaysCount",
	4:  "ClaimDRGAmount",
	5:  "ClaimPaymentRemarkCode",
	6:  "ClaimDisproportionateShareAmount",
	7:  "ClaimMSPPassThroughAmount",
	8:  "ClaimPPSCapitalAmount",
	9:  "PPSCapitalFSPDRGAmount",
	10: "PPSCapitalHSPDRGAmount",
	11: "PPSCapitalDSHDRGAmount",
	12: "OldCapitalAmount",
	13: "PPSCapitalIMEAmount",
	14: "PPSOperatingHospitalSpecificDRGAmount",
	15: "CostReportDayCount",
	16: "PPSOperatingFederalSpecificDRGAmount",
	17: "ClaimPPSCapitalOutlierAmount",
	18: "ClaimIndirectTeachingAmount",
	19: "NonpayableProfessionalComponentAmount",
	20: "ClaimPaymentRemarkCode2",
	21: "ClaimPaymentRemarkCode3",
	22: "ClaimPaymentRemarkCode4",
	23: "ClaimPaymentRemarkCode5",
	24: "PPSCapitalExceptionAmount",
}

// MIAColumn returns the claim-level MIA column name for position n (1-based).
func MIAColumn(n int) string {
	return "MIA_" + miaElementNames[n] + "_L2100_MIA"
}

// ClaimCASColumn returns the claim-level CAS column name for trio n (1-based).
func ClaimCASColumn(n int, part string) string {
	return "CLM_CAS" + itoa(n) + "_" + part + "_L2100_CAS"
}

// ServiceCASColumn returns the service-level CAS column name for trio n.
func ServiceCASColumn(n int, part string) string {
	return "SVC_CAS" + itoa(n) + "_" + part + "_L2110_CAS"
}

// PLBAdjColumn returns the flattened PLB adjustment column name for slot n.
func PLBAdjColumn(n int, part string) string {
	return "PLB_Adj" + itoa(n) + "_" + part + "_PLB"
}

func itoa(n int) string {
	if n < 10 {
		return string(rune('0' + n))
	}
	return string(rune('0'+n/10)) + string(rune('0'+n%10))
}

// columnOrder is the canonical column order for the consolidated CSV.
var columnOrder = buildColumnOrder()

func buildColumnOrder() []string {
	cols := []string{
		ColFilename, ColPendedReport,
		ColISAControlNumber, ColISADate, ColISATime, ColISASenderID,
		ColISAReceiverID, ColISAUsageIndicator,
		ColGSControlNumber, ColGSDate, ColGSVersionCode,
		ColSTControlNumber, ColSTConventionRef,

		ColCheckHandlingCode, ColCheckAmount, ColCheckCreditDebit,
		ColCheckPaymentMethod, ColCheckPaymentDesc,
		ColCheckPaymentFormat, ColCheckFormatDesc,
		ColCheckEffectiveDate, ColCheckTraceNumber, ColCheckTraceType,
		ColCheckOriginCompany, ColCheckProductionDate, ColCheckReceiverID,
		ColCheckPayerAddlID,
		ColCurrencyCode, ColExchangeRate,
		ColRDMTransmissionCode, ColRDMName,

		ColPayerName, ColPayerIDQualifier, ColPayerID,
		ColPayerAddress, ColPayerAddress2, ColPayerCity, ColPayerState, ColPayerZip,
		ColPayerContactBL, ColPayerContactBLNo,
		ColPayerContactCX, ColPayerContactCXNo,
		ColPayerContactIC, ColPayerContactICNo,
		ColEffectivePayer, ColPayerKey,

		ColProviderName, ColProviderIDQualifier, ColProviderID,
		ColProviderTaxID, ColProviderSecondaryID,
		ColProviderAddress, ColProviderCity, ColProviderState, ColProviderZip,

		ColClaimNumber, ColRUN, ColSEQ, ColClaimOccurrence,
		ColClaimStatus, ColClaimStatusDesc,
		ColClaimCharge, ColClaimPayment, ColClaimPatientResp,
		ColClaimFilingIndic, ColClaimFilingDesc,
		ColClaimPayerControl, ColClaimFacilityType,
		ColClaimFrequencyCode, ColClaimFrequencyDesc,
		ColClaimPatientStatus, ColClaimPatientStatusDesc,
		ColPatientLastName, ColPatientFirstName, ColPatientID,
		ColInsuredLastName, ColInsuredFirstName, ColInsuredID,
		ColRenderingProvider, ColRenderingProviderID, ColClaimPayerName,
		ColClaimStartDate, ColClaimEndDate, ColClaimReceivedDate, ColClaimStatementTo,
		ColClaimCoverageAmount, ColClaimInterestAmount, ColClaimPatientPaid,
		ColClaimMemberID, ColClaimSSN, ColClaimMRN, ColClaimPayerIDNumber,
		ColClaimRemark1, ColClaimRemarkDesc1,
		ColClaimRemark2, ColClaimRemarkDesc2,
		ColClaimRemark3, ColClaimRemarkDesc3,
		ColClaimReimburseRate, ColClaimCoveredActual,
	}

	for i := 1; i <= MIAElements; i++ {
		cols = append(cols, MIAColumn(i))
	}

	for i := 1; i <= CASTrios; i++ {
		cols = append(cols,
			ClaimCASColumn(i, "Group"),
			ClaimCASColumn(i, "Reason"),
			ClaimCASColumn(i, "Amount"),
			ClaimCASColumn(i, "Quantity"),
		)
	}
	cols = append(cols, ColClaimAdjustSummary)

	cols = append(cols,
		ColAmbPickupName, ColAmbPickupAddr, ColAmbPickupCity,
		ColAmbPickupState, ColAmbPickupZip,
		ColAmbDropoffName, ColAmbDropoffAddr, ColAmbDropoffCity,
		ColAmbDropoffState, ColAmbDropoffZip,

		ColSVCProcedureQualifier, ColSVCProcedureCode,
		ColSVCModifier1, ColSVCModifier2, ColSVCModifier3, ColSVCModifier4,
		ColSVCChargeAmount, ColSVCPaymentAmount, ColSVCUnits,
		ColSVCOriginalProcedure, ColSVCOriginalUnits,
		ColSVCStartDate, ColSVCEndDate,
		ColSVCAllowedAmount, ColSVCLineControlNumber,
		ColSVCRemark1, ColSVCRemarkDesc1,
		ColSVCRemark2, ColSVCRemarkDesc2,
		ColSVCRemark3, ColSVCRemarkDesc3,
		ColSVCPatientCount, ColSVCCoveredActual,
	)

	for i := 1; i <= CASTrios; i++ {
		cols = append(cols,
			ServiceCASColumn(i, "Group"),
			ServiceCASColumn(i, "Reason"),
			ServiceCASColumn(i, "Amount"),
			ServiceCASColumn(i, "Quantity"),
		)
	}
	cols = append(cols, ColSVCAdjustSummary)

	cols = append(cols,
		ColContractual, ColDeductible, ColCoinsurance, ColCopay,
		ColDenied, ColCOB, ColSequestration, ColHCRA, ColQMB,
		ColOtherAdjustments,
		ColPatientNonCovered, ColPatientOtherResp,
		ColAllowedAmount, ColAllowedVerify,

		ColPLBTotal, ColPLBDetails,
	)

	for i := 1; i <= PLBAdjSlots; i++ {
		cols = append(cols,
			PLBAdjColumn(i, "ReasonCode"),
			PLBAdjColumn(i, "RefID"),
			PLBAdjColumn(i, "Amount"),
		)
	}

	cols = append(cols,
		ColFHPickupZIP, ColFHEffectiveUnits, ColMileageUnitPrice,
		ColFHOutOfNetwork, ColFHInNetwork,
		ColFHOONUnitPrice, ColFHINUnitPrice,
		ColFHOONMiles, ColFHINMiles,
		ColFHOONFinal, ColFHINFinal,
	)

	return cols
}

// Columns returns the canonical column order for the consolidated CSV.
func Columns() []string {
	out := make([]string, len(columnOrder))
	copy(out, columnOrder)
	return out
}

// displayNames maps canonical column names to the headers analysts see in
// the consolidated CSV. Columns without an entry keep their canonical name.
var displayNames = map[string]string{
	ColFilename:          "SOURCE FILE",
	ColRUN:               "RUN",
	ColSEQ:               "SEQ",
	ColClaimNumber:       "CLAIM NUMBER",
	ColClaimStatusDesc:   "CLAIM STATUS",
	ColClaimCharge:       "CLAIM CHARGED",
	ColClaimPayment:      "CLAIM PAID",
	ColClaimPatientResp:  "PATIENT RESP",
	ColPatientLastName:   "PATIENT LAST",
	ColPatientFirstName:  "PATIENT FIRST",
	ColPatientID:         "PATIENT ID",
	ColEffectivePayer:    "PAYER",
	ColPayerState:        "PAYER STATE",
	ColProviderName:      "PROVIDER",
	ColCheckTraceNumber:  "CHECK NUMBER",
	ColCheckAmount:       "CHECK AMOUNT",
	ColCheckEffectiveDate: "CHECK DATE",
	ColSVCProcedureCode:  "HCPCS",
	ColSVCModifier1:      "MOD 1",
	ColSVCModifier2:      "MOD 2",
	ColSVCChargeAmount:   "LINE CHARGED",
	ColSVCPaymentAmount:  "LINE PAID",
	ColSVCUnits:          "UNITS",
	ColSVCStartDate:      "DATE OF SERVICE",
	ColClaimCoveredActual: "CLAIM COVERED ACTUAL",
	ColSVCCoveredActual:  "SERVICE COVERED ACTUAL",
	ColSVCAllowedAmount:  "PAYER ALLOWED",
	ColAllowedAmount:     "CALC ALLOWED",
	ColAllowedVerify:     "CALC ALLOWED CHECK",
	ColContractual:       "CONTRACTUAL",
	ColDeductible:        "DEDUCTIBLE",
	ColCoinsurance:       "COINSURANCE",
	ColCopay:             "COPAY",
	ColDenied:            "DENIED",
	ColCOB:               "COB",
	ColSequestration:     "SEQUESTRATION",
	ColFHPickupZIP:       "PICK UP ZIP",
	ColFHOutOfNetwork:    "FH OON",
	ColFHInNetwork:       "FH IN NETWORK",
	ColFHOONFinal:        "FH OON FINAL",
	ColFHINFinal:         "FH IN FINAL",
	ColFHEffectiveUnits:  "FH UNITS",
	ColMileageUnitPrice:  "EDI MILEAGE UNIT PRICE",
}

// DisplayHeader returns the display header for a canonical column name.
func DisplayHeader(col string) string {
	if name, ok := displayNames[col]; ok {
		return name
	}
	return col
}

// DisplayHeaders maps a canonical column list to display headers.
func DisplayHeaders(columns []string) []string {
	out := make([]string, len(columns))
	for i, col := range columns {
		out[i] = DisplayHeader(col)
	}
	return out
}
