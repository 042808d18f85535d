package main

// #region imports
import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/claritycare/policysuggest/internal/knowledge"
)

// #endregion

// #region main
func main() {
	dbPath := flag.String("db", "knowledge.db", "path to the knowledge database")
	flag.Parse()

	store, err := knowledge.NewSQLiteStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open knowledge db: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx := context.Background()
	for _, doc := range seedDocuments() {
		if err := store.Put(ctx, doc); err != nil {
			log.Fatalf("seed %s: %v", doc.ID, err)
		}
	}
	fmt.Printf("seeded %d documents into %s\n", len(seedDocuments()), *dbPath)
}

// #endregion main

// #region seed-data

// seedDocuments returns a starter knowledge base covering the common
// care-policy topics across the supported jurisdictions.
func seedDocuments() []knowledge.RawDocument {
	now := time.Now().UTC()
	return []knowledge.RawDocument{
		{
			ID:         "tpl-safeguarding-001",
			SourceType: knowledge.SourceTemplate,
			Title:      "Safeguarding Adults Policy Template",
			Content: "Purpose. This policy sets out how the service protects residents from abuse and neglect. " +
				"Staff responsibilities:\n" +
				"1. Report any safeguarding concern to the designated lead on the same day.\n" +
				"2. Record concerns factually in the incident log.\n" +
				"3. Cooperate fully with local authority enquiries.\n" +
				"All staff receive safeguarding training during induction and annually thereafter.",
			Version:       "3.1",
			Section:       "Safeguarding",
			Jurisdictions: []string{"england", "wales"},
			StandardCodes: []string{"CQC-R13"},
			Verification:  knowledge.VerificationVerified,
			UpdatedAt:     now.AddDate(0, -2, 0),
		},
		{
			ID:         "tpl-medication-001",
			SourceType: knowledge.SourceTemplate,
			Title:      "Medication Management Policy Template",
			Content: "Purpose. Safe handling, storage and recording of medicines. " +
				"Key controls:\n" +
				"- Medicines are stored in a locked facility with temperature monitoring.\n" +
				"- Administration records are completed at the point of administration.\n" +
				"- Errors are reported to the registered manager without delay.\n" +
				"Competency of staff handling medicines is assessed annually.",
			Version:       "2.4",
			Section:       "Medication",
			Jurisdictions: []string{"england", "scotland", "wales"},
			StandardCodes: []string{"CQC-R12"},
			Verification:  knowledge.VerificationVerified,
			UpdatedAt:     now.AddDate(0, -1, 0),
		},
		{
			ID:         "std-cqc-r12",
			SourceType: knowledge.SourceStandard,
			Title:      "Safe Care and Treatment (Regulation 12)",
			Content: "Providers must assess risks to health and safety and do all that is reasonably practicable to mitigate them. " +
				"Requirements:\n" +
				"1. Risks to people using the service are assessed and managed.\n" +
				"2. Staff have the qualifications and skills to keep people safe.\n" +
				"3. Medicines are managed properly and safely.\n" +
				"4. Infection prevention and control is maintained.",
			Version:       "2024.1",
			Section:       "Regulation 12",
			Jurisdictions: []string{"england"},
			StandardCodes: []string{"CQC-R12"},
			Verification:  knowledge.VerificationVerified,
			UpdatedAt:     now.AddDate(0, -4, 0),
		},
		{
			ID:         "std-cqc-r13",
			SourceType: knowledge.SourceStandard,
			Title:      "Safeguarding from Abuse (Regulation 13)",
			Content: "People using the service must be protected from abuse and improper treatment. " +
				"Requirements:\n" +
				"1. Systems and processes prevent abuse of service users.\n" +
				"2. Allegations of abuse are investigated immediately.\n" +
				"3. Restraint is used only when necessary and proportionate.",
			Version:       "2024.1",
			Section:       "Regulation 13",
			Jurisdictions: []string{"england"},
			StandardCodes: []string{"CQC-R13"},
			Verification:  knowledge.VerificationVerified,
			UpdatedAt:     now.AddDate(0, -4, 0),
		},
		{
			ID:         "std-hiqa-medicines",
			SourceType: knowledge.SourceStandard,
			Title:      "HIQA National Standard: Medicines Management",
			Content: "Residents receive safe and effective care regarding medicines. " +
				"Expectations:\n" +
				"1. Each resident has an up-to-date medication record.\n" +
				"2. Medicines are reviewed by a pharmacist at defined intervals.\n" +
				"3. Unused medicines are disposed of safely.",
			Version:       "1.3",
			Section:       "Standard 4.3",
			Jurisdictions: []string{"ireland"},
			StandardCodes: []string{"HIQA-4.3"},
			Verification:  knowledge.VerificationVerified,
			UpdatedAt:     now.AddDate(-1, -1, 0),
		},
		{
			ID:         "rule-eng-notifications",
			SourceType: knowledge.SourceRule,
			Title:      "Statutory Notifications for English Care Services",
			Content: "Registered providers in England must notify the regulator of deaths, serious injuries, " +
				"abuse allegations and events that stop the service running safely. Notifications are submitted " +
				"without delay and records of each notification are retained.",
			Version:       "2023.2",
			Jurisdictions: []string{"england"},
			StandardCodes: []string{"CQC-R18"},
			Verification:  knowledge.VerificationVerified,
			UpdatedAt:     now.AddDate(0, -6, 0),
		},
		{
			ID:         "rule-scot-records",
			SourceType: knowledge.SourceRule,
			Title:      "Care Records Retention (Scotland)",
			Content: "Care services in Scotland retain personal plans and daily records in line with the " +
				"Care Inspectorate's records retention schedule. Personal plans are reviewed at least every six months.",
			Version:       "2022.1",
			Jurisdictions: []string{"scotland"},
			Verification:  knowledge.VerificationPending,
			UpdatedAt:     now.AddDate(-2, 0, 0),
		},
		{
			ID:         "rule-old-infection",
			SourceType: knowledge.SourceRule,
			Title:      "Infection Control Guidance (superseded)",
			Content: "Historic infection prevention guidance retained for reference. " +
				"Hand hygiene audits are carried out monthly and outbreaks reported to the health protection team.",
			Version:       "2020.1",
			Jurisdictions: []string{"england", "wales"},
			Verification:  knowledge.VerificationDeprecated,
			UpdatedAt:     now.AddDate(-4, 0, 0),
		},
	}
}

// #endregion seed-data
