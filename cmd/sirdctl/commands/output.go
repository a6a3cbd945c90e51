package commands

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/phrazzld/sird-api/internal/domain/sird"
	"github.com/phrazzld/sird-api/internal/service"
)

var (
	titleColor    = color.New(color.FgCyan, color.Bold)
	labelColor    = color.New(color.Faint)
	infectedColor = color.New(color.FgYellow)
	deathColor    = color.New(color.FgRed)
	recovColor    = color.New(color.FgGreen)
)

func printResult(w io.Writer, r *sird.Result) {
	cfg := r.Config

	titleColor.Fprintf(w, "%s\n", cfg.Name)
	labelColor.Fprintf(w, "  N=%g I0=%g beta=%g gamma=%g mu=%g over %d days (~%d months)\n",
		cfg.TotalPopulation, cfg.InitialInfected, cfg.TransmissionRate,
		cfg.RecoveryRate, cfg.MortalityRate, cfg.DurationDays, r.DurationMonths())

	fmt.Fprint(w, "  peak infected   ")
	infectedColor.Fprintf(w, "%.0f", r.Peak.Value)
	fmt.Fprintf(w, " on day %d (%.2f%%)\n", r.Peak.Day, r.PeakPercent())

	fmt.Fprint(w, "  deaths          ")
	deathColor.Fprintf(w, "%d", r.TotalDeaths)
	fmt.Fprintf(w, " (%.2f%%)\n", r.DeathPercent())

	fmt.Fprint(w, "  recovered       ")
	recovColor.Fprintf(w, "%d\n", r.TotalRecovered)

	fmt.Fprintf(w, "  susceptible     %d\n", r.FinalSusceptible)
}

func printSeries(w io.Writer, series []sird.Snapshot) {
	titleColor.Fprintf(w, "%6s %12s %12s %12s %12s\n", "day", "susceptible", "infected", "recovered", "deceased")
	for _, s := range series {
		fmt.Fprintf(w, "%6d %12d %12d %12d %12d\n", s.Day, s.Susceptible, s.Infected, s.Recovered, s.Deceased)
	}
}

func printSaved(w io.Writer, r *sird.Result) {
	recovColor.Fprintf(w, "saved %s\n", r.ID)
}

func printHistory(w io.Writer, results []*sird.Result) {
	if len(results) == 0 {
		fmt.Fprintln(w, "no simulations stored")
		return
	}
	for _, r := range results {
		titleColor.Fprintf(w, "%s", r.Config.Name)
		labelColor.Fprintf(w, "  %s  %s\n", r.ID, r.CreatedAt.UTC().Format("2006-01-02 15:04"))
		fmt.Fprintf(w, "  %d days, peak %.0f on day %d, ", r.Config.DurationDays, r.Peak.Value, r.Peak.Day)
		deathColor.Fprintf(w, "%d deaths\n", r.TotalDeaths)
	}
}

func printSummary(w io.Writer, s service.Summary) {
	fmt.Fprintf(w, "simulations     %d\n", s.Count)
	fmt.Fprint(w, "average deaths  ")
	deathColor.Fprintf(w, "%d\n", s.AverageDeaths)
}

func printImported(w io.Writer, results []*sird.Result) {
	recovColor.Fprintf(w, "imported %d simulations\n", len(results))
	for _, r := range results {
		fmt.Fprintf(w, "  %s  %s\n", r.ID, r.Config.Name)
	}
}
