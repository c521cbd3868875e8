package assistant

const parsePrompt = `Převeď popis odvedené práce na položky pracovního výkazu.
Referenční datum (dnes): %s. Chybí-li rok, vezmi ho z referenčního data.
Dostupné zakázky: [%s]
Neuvede-li uživatel typ, použij '%s'.
Zakázku vyplň jen u typů '%s' a '%s', a to ze seznamu zakázek. U všech ostatních typů nech zakázku prázdnou.

Text: "%s"`

const transcribePrompt = `Přepiš nahrávku do textu. Drobné gramatické chyby oprav, smysl zachovej. Vrať jen samotný text.`

const analyzePrompt = `Zhodnoť měsíční výkaz práce pro manažera a mzdovou účetní.
Záznamy: %s

Napiš česky nejvýše tři krátké odstavce ve formě e-mailu nadřízenému:
vytížení a neobvyklé hodnoty, podezřelé nebo chybějící záznamy, celkové zhodnocení.`

const helpPrompt = `Jsi podpora aplikace pro docházku. Odpovídej česky, stručně a věcně.
Aplikace umí: denní editor s více položkami na den, hromadné zadání pro rozsah dní (víkendy a svátky se přeskakují),
zadání textem nebo hlasem, kontrolu chybějících dnů, víkendů, svátků a součtu hodin,
odeslání měsíce ke schválení (odeslaný měsíc je uzamčen), export CSV, PDF a e-mailu pro účetní.
Zakázka se vyplňuje jen u běžné práce a přesčasu.

Dotaz: "%s"`
