package app

// User-facing texts.
const (
	MsgLoading           = "Memuat…"
	MsgLoadingShort      = "…"
	MsgNoRecent          = "Belum ada transaksi."
	MsgNoRangeRows       = "Belum ada transaksi di periode ini."
	MsgNoAnalytics       = "Belum ada data untuk periode ini."
	MsgCategoriesLoading = "Memuat..."
	MsgNoCategories      = "(Tidak ada kategori)"
	MsgOutsideHost       = "init_data tidak ada (buka dari Telegram)."
	MsgSaving            = "Menyimpan..."
	MsgSaved             = "Tersimpan."
	MsgUpdated           = "Transaksi diperbarui."
	MsgSaveFailed        = "Gagal menyimpan."
	MsgDeleteFailed      = "Gagal menghapus transaksi."
	MsgLoadFailed        = "Gagal memuat data."
	PromptDelete         = "Yakin hapus transaksi ini?"
)

// Phase is the display state of a loadable region. Exactly one applies.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseEmpty
	PhasePopulated
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseEmpty:
		return "empty"
	case PhasePopulated:
		return "populated"
	case PhaseFailed:
		return "failed"
	}
	return "unknown"
}

func phaseOf(n int) Phase {
	if n == 0 {
		return PhaseEmpty
	}
	return PhasePopulated
}

// StatusKind colors the status line.
type StatusKind int

const (
	StatusMuted StatusKind = iota
	StatusOK
	StatusError
)

type Status struct {
	Text string
	Kind StatusKind
}
