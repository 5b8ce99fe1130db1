package events

import (
	"reinocalc/internal/domain"

	"github.com/shopspring/decimal"
)

type PatrimonyChangedData struct {
	Value     decimal.Decimal `json:"value"`
	Formatted string          `json:"formatted"`
}

func (PatrimonyChangedData) EventType() EventType { return PatrimonyChanged }

type AllocationChangedData struct {
	AssetKey   domain.AssetKey `json:"assetKey"`
	Value      decimal.Decimal `json:"value"`
	Percentage decimal.Decimal `json:"percentage"`
	MaxAllowed decimal.Decimal `json:"maxAllowed"`
	IsValid    bool            `json:"isValid"`
}

func (AllocationChangedData) EventType() EventType { return AllocationChanged }

type AllocationStatusData struct {
	domain.AllocationStatus
}

func (AllocationStatusData) EventType() EventType { return AllocationStatusChanged }

type AllocationClampedData struct {
	AssetKey  domain.AssetKey `json:"assetKey"`
	Requested decimal.Decimal `json:"requested"`
	Applied   decimal.Decimal `json:"applied"`
	Message   string          `json:"message"`
}

func (AllocationClampedData) EventType() EventType { return AllocationClamped }

type PatrimonyNotSetData struct {
	AssetKey domain.AssetKey `json:"assetKey"`
	Message  string          `json:"message"`
}

func (PatrimonyNotSetData) EventType() EventType { return PatrimonyNotSet }

type SelectionChangedData struct {
	SelectedAssets []domain.AssetKey `json:"selectedAssets"`
}

func (SelectionChangedData) EventType() EventType { return SelectionChanged }

type ComparisonCalculatedData struct {
	Result domain.FeeComparisonResult `json:"result"`
}

func (ComparisonCalculatedData) EventType() EventType { return ComparisonCalculated }

type StepChangedData struct {
	PreviousStep int    `json:"previousStep"`
	CurrentStep  int    `json:"currentStep"`
	StepName     string `json:"stepName"`
	CanProceed   bool   `json:"canProceed"`
}

func (StepChangedData) EventType() EventType { return StepChanged }

type StepValidationChangedData struct {
	CurrentStep int  `json:"currentStep"`
	CanProceed  bool `json:"canProceed"`
	IsLastStep  bool `json:"isLastStep"`
}

func (StepValidationChangedData) EventType() EventType { return StepValidationChanged }

type SubmitRequestedData struct {
	Step int `json:"step"`
}

func (SubmitRequestedData) EventType() EventType { return SubmitRequested }

type CalculatorResetData struct{}

func (CalculatorResetData) EventType() EventType { return CalculatorReset }
