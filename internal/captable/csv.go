package captable

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
)

// WriteRoundsCSV writes one row per stakeholder per round.
func WriteRoundsCSV(path string, rounds []RoundResult) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return EncodeRoundsCSV(f, rounds)
}

func EncodeRoundsCSV(out io.Writer, rounds []RoundResult) error {
	w := csv.NewWriter(out)
	defer w.Flush()

	header := []string{
		"order",
		"round_id",
		"round_name",
		"round_type",
		"pre_money",
		"post_money",
		"share_price",
		"shares_issued",
		"esop_shares_added",
		"total_shares",
		"dilution",
		"stakeholder_id",
		"stakeholder_name",
		"stakeholder_type",
		"shares",
		"percentage",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range rounds {
		for _, o := range r.Ownership {
			row := []string{
				strconv.Itoa(r.Order),
				r.RoundID,
				r.RoundName,
				string(r.RoundType),
				fmtFloat(r.PreMoney),
				fmtFloat(r.PostMoney),
				fmtFloat(r.SharePrice),
				fmtFloat(r.SharesIssued),
				fmtFloat(r.ESOPSharesAdded),
				fmtFloat(r.TotalShares),
				fmtFloat(r.Dilution),
				o.ID,
				o.Name,
				string(o.StakeholderType),
				fmtFloat(o.Shares),
				fmtFloat(o.Percentage),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}

// WriteExitCSV writes the exit distribution table.
func WriteExitCSV(path string, rows []ExitRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return EncodeExitCSV(f, rows)
}

func EncodeExitCSV(out io.Writer, rows []ExitRow) error {
	w := csv.NewWriter(out)
	defer w.Flush()

	if err := w.Write([]string{"stakeholder_id", "stakeholder_name", "stakeholder_type", "shares", "percentage", "value", "net_value"}); err != nil {
		return err
	}
	for _, r := range rows {
		row := []string{
			r.ID,
			r.Name,
			string(r.StakeholderType),
			fmtFloat(r.Shares),
			fmtFloat(r.Percentage),
			fmtFloat(r.Value),
			fmtFloat(r.NetValue),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
