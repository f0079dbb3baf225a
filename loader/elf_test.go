package loader_test

import (
	"encoding/binary"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rlopez44/cgba/loader"
)

var _ = Describe("ELF Loader", func() {
	var tempDir string

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "elf-loader-test")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		_ = os.RemoveAll(tempDir)
	})

	Describe("LoadELF", func() {
		Context("with a valid ARM ELF binary", func() {
			var elfPath string

			BeforeEach(func() {
				elfPath = filepath.Join(tempDir, "test.elf")
				createMinimalARMELF(elfPath, 0x8000, 0x8000, []byte{
					0x00, 0x00, 0xa0, 0xe3, // mov r0, #0
					0x1e, 0xff, 0x2f, 0xe1, // bx lr
				})
			})

			It("should load without error", func() {
				prog, err := loader.LoadELF(elfPath)
				Expect(err).NotTo(HaveOccurred())
				Expect(prog).NotTo(BeNil())
				Expect(prog.Kind).To(Equal(loader.KindELF))
			})

			It("should extract the correct entry point", func() {
				prog, err := loader.LoadELF(elfPath)
				Expect(err).NotTo(HaveOccurred())
				Expect(prog.EntryPoint).To(Equal(uint32(0x8000)))
				Expect(prog.EntryThumb).To(BeFalse())
			})

			It("should load the code segment", func() {
				prog, err := loader.LoadELF(elfPath)
				Expect(err).NotTo(HaveOccurred())
				Expect(prog.Segments).To(HaveLen(1))

				seg := prog.Segments[0]
				Expect(seg.Addr).To(Equal(uint32(0x8000)))
				Expect(seg.Data).To(HaveLen(8))
				Expect(binary.LittleEndian.Uint32(seg.Data[4:])).To(Equal(uint32(0xE12FFF1E)))
				Expect(seg.Executable()).To(BeTrue())
				Expect(seg.Flags & loader.SegmentFlagRead).NotTo(BeZero())
				Expect(seg.Flags & loader.SegmentFlagWrite).To(BeZero())
			})

			It("should not carry a cartridge header", func() {
				prog, err := loader.LoadELF(elfPath)
				Expect(err).NotTo(HaveOccurred())
				Expect(prog.Header).To(BeNil())
			})
		})

		Context("with a Thumb entry point", func() {
			It("should clear the Thumb bit and flag the entry", func() {
				elfPath := filepath.Join(tempDir, "thumb.elf")
				createMinimalARMELF(elfPath, 0x8000, 0x8001, []byte{
					0x70, 0x47, // bx lr
					0x00, 0xbf, // nop
				})

				prog, err := loader.LoadELF(elfPath)
				Expect(err).NotTo(HaveOccurred())
				Expect(prog.EntryPoint).To(Equal(uint32(0x8000)))
				Expect(prog.EntryThumb).To(BeTrue())
			})
		})

		Context("with an invalid file", func() {
			It("should return error for non-existent file", func() {
				_, err := loader.LoadELF("/nonexistent/path/to/file.elf")
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("failed to open"))
			})

			It("should return error for non-ELF file", func() {
				notElfPath := filepath.Join(tempDir, "not-elf.bin")
				err := os.WriteFile(notElfPath, []byte("not an elf file"), 0644)
				Expect(err).NotTo(HaveOccurred())

				_, err = loader.LoadELF(notElfPath)
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("ELF"))
			})
		})

		Context("with non-ARM ELF", func() {
			It("should return error for x86 ELF", func() {
				elfPath := filepath.Join(tempDir, "x86.elf")
				createMinimalx86ELF(elfPath)

				_, err := loader.LoadELF(elfPath)
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("not an ARM"))
			})
		})

		Context("with 64-bit ELF", func() {
			It("should return error for 64-bit ELF", func() {
				elfPath := filepath.Join(tempDir, "elf64.elf")
				createMinimal64BitELF(elfPath)

				_, err := loader.LoadELF(elfPath)
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("not a 32-bit"))
			})
		})
	})
})

// createMinimalARMELF creates a minimal little-endian ARM ELF32 binary with
// one PT_LOAD segment.
func createMinimalARMELF(path string, loadAddr, entryPoint uint32, code []byte) {
	// ELF Header (52 bytes)
	elfHeader := make([]byte, 52)

	copy(elfHeader[0:4], []byte{0x7f, 'E', 'L', 'F'})
	elfHeader[4] = 1                                    // 32-bit
	elfHeader[5] = 1                                    // little endian
	elfHeader[6] = 1                                    // version
	binary.LittleEndian.PutUint16(elfHeader[16:18], 2)  // executable
	binary.LittleEndian.PutUint16(elfHeader[18:20], 40) // ARM
	binary.LittleEndian.PutUint32(elfHeader[20:24], 1)  // version
	binary.LittleEndian.PutUint32(elfHeader[24:28], entryPoint)
	binary.LittleEndian.PutUint32(elfHeader[28:32], 52) // phoff
	binary.LittleEndian.PutUint32(elfHeader[32:36], 0)  // shoff
	binary.LittleEndian.PutUint16(elfHeader[40:42], 52) // ehsize
	binary.LittleEndian.PutUint16(elfHeader[42:44], 32) // phentsize
	binary.LittleEndian.PutUint16(elfHeader[44:46], 1)  // phnum
	binary.LittleEndian.PutUint16(elfHeader[46:48], 40) // shentsize

	// Program Header (32 bytes) - PT_LOAD
	progHeader := make([]byte, 32)
	binary.LittleEndian.PutUint32(progHeader[0:4], 1)                   // PT_LOAD
	binary.LittleEndian.PutUint32(progHeader[4:8], 52+32)               // offset
	binary.LittleEndian.PutUint32(progHeader[8:12], loadAddr)           // vaddr
	binary.LittleEndian.PutUint32(progHeader[12:16], loadAddr)          // paddr
	binary.LittleEndian.PutUint32(progHeader[16:20], uint32(len(code))) // filesz
	binary.LittleEndian.PutUint32(progHeader[20:24], uint32(len(code))) // memsz
	binary.LittleEndian.PutUint32(progHeader[24:28], 0x5)               // PF_R | PF_X
	binary.LittleEndian.PutUint32(progHeader[28:32], 0x1000)            // align

	file, _ := os.Create(path)
	defer func() { _ = file.Close() }()

	_, _ = file.Write(elfHeader)
	_, _ = file.Write(progHeader)
	_, _ = file.Write(code)
}

// createMinimalx86ELF creates a minimal 32-bit x86 ELF to test rejection.
func createMinimalx86ELF(path string) {
	elfHeader := make([]byte, 52)

	copy(elfHeader[0:4], []byte{0x7f, 'E', 'L', 'F'})
	elfHeader[4] = 1                                    // 32-bit
	elfHeader[5] = 1                                    // little endian
	elfHeader[6] = 1                                    // version
	binary.LittleEndian.PutUint16(elfHeader[16:18], 2)  // executable
	binary.LittleEndian.PutUint16(elfHeader[18:20], 3)  // i386
	binary.LittleEndian.PutUint32(elfHeader[20:24], 1)  // version
	binary.LittleEndian.PutUint32(elfHeader[28:32], 52) // phoff
	binary.LittleEndian.PutUint16(elfHeader[40:42], 52) // ehsize
	binary.LittleEndian.PutUint16(elfHeader[42:44], 32) // phentsize

	file, _ := os.Create(path)
	defer func() { _ = file.Close() }()
	_, _ = file.Write(elfHeader)
}

// createMinimal64BitELF creates a minimal 64-bit ELF to test rejection.
func createMinimal64BitELF(path string) {
	elfHeader := make([]byte, 64)

	copy(elfHeader[0:4], []byte{0x7f, 'E', 'L', 'F'})
	elfHeader[4] = 2                                     // 64-bit (ELFCLASS64)
	elfHeader[5] = 1                                     // little endian
	elfHeader[6] = 1                                     // version
	binary.LittleEndian.PutUint16(elfHeader[16:18], 2)   // executable
	binary.LittleEndian.PutUint16(elfHeader[18:20], 183) // AArch64
	binary.LittleEndian.PutUint32(elfHeader[20:24], 1)   // version
	binary.LittleEndian.PutUint64(elfHeader[32:40], 64)  // phoff
	binary.LittleEndian.PutUint16(elfHeader[52:54], 64)  // ehsize
	binary.LittleEndian.PutUint16(elfHeader[54:56], 56)  // phentsize

	file, _ := os.Create(path)
	defer func() { _ = file.Close() }()
	_, _ = file.Write(elfHeader)
}
